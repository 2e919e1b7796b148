package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
)

// pageLinks builds query strings for neighbouring pages while preserving the
// caller's filters. Areas are only carried when the caller chose them.
type pageLinks struct {
	base url.Values
}

func newPageLinks(req domain.SearchRequest) pageLinks {
	v := url.Values{}
	if req.Query != "" {
		v.Set("q", req.Query)
	}
	if req.Activities != "" && req.Activities != usecases.DefaultActivities {
		v.Set("act", req.Activities)
	}
	if req.Limit != usecases.DefaultLimit {
		v.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.ExplicitAreas && len(req.AreaIDs) > 0 {
		v.Set("areas", strings.Join(req.AreaIDs, ","))
	}
	return pageLinks{base: v}
}

func (p pageLinks) at(offset int) string {
	v := url.Values{}
	for k, vals := range p.base {
		v[k] = vals
	}
	v.Set("offset", strconv.Itoa(offset))
	return v.Encode()
}

// SetLinkHeaders adds RFC 8288 Link headers for a paginated search response.
func SetLinkHeaders(c *fiber.Ctx, req domain.SearchRequest, w domain.PageWindow) {
	base := c.Path()
	links := newPageLinks(req)
	var out []string

	link := func(offset int, rel string) {
		out = append(out, "<"+base+"?"+links.at(offset)+`>; rel="`+rel+`"`)
	}

	link(0, "first")
	if w.HasPrev {
		link(w.PrevOffset, "prev")
	}
	if w.HasNext {
		link(w.NextOffset, "next")
	}
	lastOffset := 0
	if w.Total > 0 && w.Limit > 0 {
		lastOffset = usecases.SnapOffset(w.Total-1, w.Limit)
	}
	link(lastOffset, "last")

	c.Set("Link", strings.Join(out, ", "))
}
