package handlers

import (
	"github.com/gin-gonic/gin"

	"crudcenter/internal/core/apperror"
	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/query"
	"crudcenter/internal/infrastructure/http/v1/dto"
	"crudcenter/internal/infrastructure/http/v1/middleware"
	"crudcenter/pkg/logger"
)

// AssemblerSource hands out a query assembler per named connection.
type AssemblerSource interface {
	Assembler(connection string) (*query.Assembler, error)
}

// ListOptions are the list defaults shared by every resource.
type ListOptions struct {
	DefaultSize int
	// MaxLimit caps resources that declare no limit of their own.
	MaxLimit int
	Mode     paging.Mode
}

// ListHandler serves list and schema endpoints for registered resources.
type ListHandler struct {
	*BaseHandler
	source AssemblerSource
	opts   ListOptions
}

// NewListHandler creates a new list handler.
func NewListHandler(base *BaseHandler, source AssemblerSource, opts ListOptions) *ListHandler {
	if opts.DefaultSize < 1 {
		opts.DefaultSize = 10
	}
	return &ListHandler{BaseHandler: base, source: source, opts: opts}
}

// List handles GET /api/v1/:resource
func (h *ListHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	res := middleware.GetResource(c)
	if res == nil {
		h.HandleError(c, apperror.NewInternal(nil).WithDetail("reason", "resource not resolved"))
		return
	}

	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filters, err := res.Schema.ParseQuery(c.Request.URL.Query())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	def := *res
	if def.MaxLimit == 0 {
		def.MaxLimit = h.opts.MaxLimit
	}
	req, err := def.Request(q.Params(h.opts.DefaultSize, filters), h.opts.Mode)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	asm, err := h.source.Assembler(res.Connection)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, err := asm.List(ctx, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	logger.Debug(ctx, "list served", "total", page.Total)
	h.OK(c, dto.NewListResponse(page))
}

// Schema handles GET /api/v1/:resource/schema
func (h *ListHandler) Schema(c *gin.Context) {
	res := middleware.GetResource(c)
	if res == nil {
		h.HandleError(c, apperror.NewInternal(nil).WithDetail("reason", "resource not resolved"))
		return
	}
	h.OK(c, dto.FromResource(res))
}
