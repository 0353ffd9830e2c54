// Package agora provides a community proposal governance server.
//
// # Overview
//
// agora exposes a small tool-and-resource protocol for creating proposals,
// casting votes, discussing, and requesting analyses. A dispatcher routes
// named tool calls by name prefix and resource reads by URI scheme, validates
// arguments against declared schemas, and reports every failure through a
// closed error taxonomy.
//
// # Organization
//
// The project is organized into the following main packages:
//
//   - github.com/agoralabs/agora/server: the request dispatcher and its registries
//   - github.com/agoralabs/agora/protocol: wire structures and the error taxonomy
//   - github.com/agoralabs/agora/service: the proposal, vote, comment, user, and analysis stores
//   - github.com/agoralabs/agora/toolset: the tool and resource groups binding services to the dispatcher
//   - github.com/agoralabs/agora/transport: stdio and WebSocket wire layers
//
// # Basic Usage
//
//	proposals := service.NewProposalService()
//	group, err := toolset.ProposalTools(proposals)
//	if err != nil {
//	  log.Fatalf("failed to build tool group: %v", err)
//	}
//
//	srv := server.NewServer("agora")
//	if err := srv.AddToolGroup(group); err != nil {
//	  log.Fatalf("failed to register tools: %v", err)
//	}
//
//	t := stdio.NewTransport()
//	t.SetMessageHandler(srv.HandleMessage)
//	if err := t.Start(); err != nil {
//	  log.Fatalf("transport stopped: %v", err)
//	}
package agora
