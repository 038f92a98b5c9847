package podapi

import (
	"net/url"
	"strconv"

	"podsync/internal/adapters/podapi/dto"
)

// resolveNextPage decides whether fetching should continue and at which
// offset. Precedence: an explicit next-page link, then offset arithmetic
// against a known total, then a full-page heuristic when the total is
// unknown.
func resolveNextPage(resp *dto.ListResponse, current, limit, count int) (bool, int) {
	offset := current
	total := 0

	if resp.Paging != nil {
		total = resp.Paging.Total
		if resp.Paging.Offset > 0 || current == 0 {
			offset = resp.Paging.Offset
		}
		if resp.Paging.Limit > 0 {
			limit = resp.Paging.Limit
		}
	}

	if resp.Links != nil && resp.Links.Next != nil {
		if next, ok := offsetFromLink(resp.Links.Next.Href); ok {
			return true, next
		}
	}

	nextOffset := offset + limit

	if total > 0 && nextOffset >= total {
		return false, nextOffset
	}

	if count < limit {
		return false, nextOffset
	}

	return true, nextOffset
}

func offsetFromLink(href string) (int, bool) {
	parsed, err := url.Parse(href)
	if err != nil {
		return 0, false
	}

	raw := parsed.Query().Get("offset")
	if raw == "" {
		return 0, false
	}

	offset, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return offset, true
}
