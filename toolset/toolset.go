// Package toolset wires the governance services into the dispatcher's tool
// and resource groups. Each file covers one prefix or scheme and owns the
// argument structs its schemas are generated from.
package toolset

import (
	"errors"

	"github.com/agoralabs/agora/protocol"
	"github.com/agoralabs/agora/service"
)

// mapServiceError translates service sentinel errors into protocol error
// envelopes. Anything unrecognized passes through and is wrapped as
// InternalError at the dispatch boundary.
func mapServiceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound):
		return protocol.NewNotFoundError(err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrProposalClosed),
		errors.Is(err, service.ErrDuplicateVote):
		return protocol.NewInvalidParamsError(err.Error())
	default:
		return err
	}
}
