package resourceserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/dataproxy/codec"
	dperrors "github.com/kbukum/dataproxy/errors"
	"github.com/kbukum/dataproxy/logger"
)

// documentCodecs can carry free-form documents; XML cannot encode maps.
var documentCodecs = []string{"json", "yaml", "toml"}

type handler struct {
	store *Store
	log   *logger.Logger
}

func (h *handler) register(r gin.IRoutes) {
	r.GET("/:resource", h.list)
	r.POST("/:resource", h.create)
	r.GET("/:resource/:id", h.get)
	r.PUT("/:resource/:id", h.update)
	r.DELETE("/:resource/:id", h.remove)
}

func (h *handler) list(c *gin.Context) {
	h.write(c, http.StatusOK, h.store.Collection(c.Param("resource")).List())
}

func (h *handler) get(c *gin.Context) {
	doc, ok := h.store.Collection(c.Param("resource")).Get(c.Param("id"))
	if !ok {
		c.String(http.StatusNotFound, MsgNotFound)
		return
	}
	h.write(c, http.StatusOK, doc)
}

func (h *handler) create(c *gin.Context) {
	col := h.store.Collection(c.Param("resource"))
	if col.ReadOnly() {
		c.String(http.StatusNotImplemented, MsgNotImplemented)
		return
	}
	doc, ok := h.read(c)
	if !ok {
		return
	}
	saved, err := col.Insert(doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.write(c, http.StatusCreated, saved)
}

func (h *handler) update(c *gin.Context) {
	col := h.store.Collection(c.Param("resource"))
	if col.ReadOnly() {
		c.String(http.StatusNotImplemented, MsgNotImplemented)
		return
	}
	doc, ok := h.read(c)
	if !ok {
		return
	}
	saved, err := col.Update(c.Param("id"), doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.write(c, http.StatusOK, saved)
}

func (h *handler) remove(c *gin.Context) {
	col := h.store.Collection(c.Param("resource"))
	if col.ReadOnly() {
		c.String(http.StatusNotImplemented, MsgNotImplemented)
		return
	}
	if err := col.Delete(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// read decodes the request body with the codec named by Content-Type,
// answering 400 itself when it cannot.
func (h *handler) read(c *gin.Context) (Document, bool) {
	cd, ok := requestCodec(c.GetHeader("Content-Type"))
	if !ok {
		c.String(http.StatusBadRequest, "unsupported content type "+c.GetHeader("Content-Type"))
		return nil, false
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		c.String(http.StatusBadRequest, "could not read request body")
		return nil, false
	}
	var doc Document
	if err := cd.Decode(body, &doc); err != nil || doc == nil {
		c.String(http.StatusBadRequest, "the request body is not a valid "+cd.Name()+" document")
		return nil, false
	}
	return doc, true
}

func (h *handler) write(c *gin.Context, status int, v any) {
	cd := responseCodec(c.GetHeader("Accept"))
	data, err := cd.Encode(v)
	if err != nil {
		h.fail(c, fmt.Errorf("encode %s response: %w", cd.Name(), err))
		return
	}
	c.Data(status, cd.MediaType(), data)
}

func (h *handler) fail(c *gin.Context, err error) {
	var se *storeError
	if errors.As(err, &se) {
		c.String(se.status, se.msg)
		return
	}
	// Anything else is a server fault; the cause is logged, not returned.
	appErr := dperrors.Internal(err)
	h.log.WithContext(c.Request.Context()).Error("request failed", logger.MergeWithError(
		logger.Fields(logger.FieldMethod, c.Request.Method, logger.FieldResource, c.Param("resource")), err))
	c.String(appErr.HTTPStatus, appErr.Message)
}

func requestCodec(contentType string) (codec.Codec, bool) {
	if strings.TrimSpace(contentType) == "" {
		return codec.Default(), true
	}
	cd, ok := codec.ForContentType(contentType)
	if !ok || !isDocumentCodec(cd) {
		return nil, false
	}
	return cd, true
}

// responseCodec picks the first acceptable media range that names a
// document codec, defaulting to JSON.
func responseCodec(accept string) codec.Codec {
	for _, part := range strings.Split(accept, ",") {
		mt, _, _ := strings.Cut(part, ";")
		mt = strings.TrimSpace(mt)
		if mt == "" || mt == "*/*" {
			continue
		}
		if cd, ok := codec.ForContentType(mt); ok && isDocumentCodec(cd) {
			return cd
		}
	}
	return codec.Default()
}

func isDocumentCodec(cd codec.Codec) bool {
	for _, n := range documentCodecs {
		if cd.Name() == n {
			return true
		}
	}
	return false
}
