package gofetch

import "github.com/amr9/gofetch/internal/loader"

// Security, Disposition, Credential, Challenge and CachePolicy are owned
// by internal/loader (the component that actually acts on them during an
// attempt); gofetch re-exports them so callers configure Client/Request
// without importing internal/loader directly.
type (
	Security    = loader.Security
	Disposition = loader.Disposition
	Credential  = loader.Credential
	Challenge   = loader.Challenge
	CachePolicy = loader.CachePolicy
)

const (
	UseDefaultHandling = loader.UseDefaultHandling
	UseCredential      = loader.UseCredential
	CancelChallenge    = loader.CancelChallenge
)

const (
	CachePolicyUseProtocol              = loader.CachePolicyUseProtocol
	CachePolicyReloadIgnoringLocalCache = loader.CachePolicyReloadIgnoringLocalCache
	CachePolicyReturnCacheDataElseLoad  = loader.CachePolicyReturnCacheDataElseLoad
	CachePolicyReturnCacheDataDontLoad  = loader.CachePolicyReturnCacheDataDontLoad
)
