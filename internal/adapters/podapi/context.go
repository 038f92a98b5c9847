package podapi

import (
	"fmt"

	"podsync/internal/config"
)

const (
	headerAuthorization = "Authorization"
	headerStoreID       = "X-Store-Id"
	headerLanguage      = "X-Language"
)

// RequestContext carries the per-run authentication state. It is built once
// by the orchestrator and passed down to every fetch, instead of being
// lazily cached inside the client.
type RequestContext struct {
	TokenType string
	Headers   map[string]string
	// Sanitized header lines with credentials redacted, safe for
	// diagnostics and logs.
	Sanitized []string
}

// BuildRequestContext validates credentials and assembles the request
// headers. An account-scoped token requires the store identifier header.
func BuildRequestContext(cfg config.PodAPIConfig) (*RequestContext, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("catalog API token missing")
	}

	tokenType := "store"
	if cfg.UseAccountToken {
		tokenType = "account"
	}

	headers := map[string]string{
		headerAuthorization: "Bearer " + cfg.Token,
		"Accept":            "application/json",
	}

	if cfg.Language != "" {
		headers[headerLanguage] = cfg.Language
	}

	if cfg.UseAccountToken {
		if cfg.StoreID == "" {
			return nil, fmt.Errorf("account token requires a store id (%s)", headerStoreID)
		}
		headers[headerStoreID] = cfg.StoreID
	}

	return &RequestContext{
		TokenType: tokenType,
		Headers:   headers,
		Sanitized: sanitizeHeaders(headers),
	}, nil
}

func sanitizeHeaders(headers map[string]string) []string {
	lines := make([]string, 0, len(headers))
	for _, name := range []string{headerAuthorization, "Accept", headerLanguage, headerStoreID} {
		value, ok := headers[name]
		if !ok {
			continue
		}
		if name == headerAuthorization {
			value = "Bearer ***"
		}
		lines = append(lines, name+": "+value)
	}
	return lines
}
