package embeddings

import "errors"

// ErrEmbedding wraps every failure to obtain an embedding: transport errors,
// non-2xx responses and malformed payloads.
var ErrEmbedding = errors.New("embedding failed")
