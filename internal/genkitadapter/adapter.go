package genkitadapter

import (
	"context"
	"iter"

	"github.com/florianilch/claudine-genkit/internal/genkitadapter/types"
)

// Adapter defines the contract for serving generation requests with a provider API.
//
// Type parameters allow the interface to express transformation contracts for different
// request/response shapes while maintaining compile-time type safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
//   - TChunk:    Client-specific streaming chunk protocol
type Adapter[TRequest, TResponse, TChunk any] interface {
	// Generate transforms the client request, calls the provider API, and returns
	// the transformed response. Implementations must be safe for concurrent use.
	Generate(ctx context.Context, clientReq TRequest) (*TResponse, error)

	// GenerateStream transforms the client request, calls the provider streaming API,
	// and returns an iterator of transformed chunks. The iterator stops at the first
	// error. Implementations must be safe for concurrent use.
	GenerateStream(ctx context.Context, clientReq TRequest) (iter.Seq2[*TChunk, error], error)
}

// Type aliases for genkit-style generate operations.
// GenerateAdapter is the concrete adapter interface for this operation.
type (
	GenerateRequest  = types.GenerateRequest
	GenerateResponse = types.GenerateResponse
	GenerateChunk    = types.GenerateChunk

	GenerateAdapter = Adapter[
		GenerateRequest,
		GenerateResponse,
		GenerateChunk,
	]
)
