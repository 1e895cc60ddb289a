package httpserver

import (
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"printshop/internal/catalog"
	"printshop/internal/domain"
	"printshop/internal/service/invoice"
	"printshop/internal/service/pricing"
	"printshop/internal/service/upload"
)

const (
	flashKey = "error"

	// multipartMemory is how much of a multipart body is held in memory before
	// spilling file parts to temporary files.
	multipartMemory = 8 << 20
)

type storefront struct {
	logger       *logrus.Entry
	catalog      *catalog.Catalog
	uploads      uploadService
	invoices     invoiceService
	maxBodyBytes int64
}

func (s *storefront) index(c *gin.Context) {
	session := sessions.Default(c)
	var messages []string
	for _, f := range session.Flashes(flashKey) {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	if len(messages) > 0 {
		if err := session.Save(); err != nil {
			s.logger.WithError(err).Warn("clear flash messages")
		}
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Errors":      messages,
		"Services":    s.catalog.Services(),
		"Accept":      acceptAttr(),
		"MaxUploadMB": float64(s.maxBodyBytes) / (1024 * 1024),
	})
}

// checkout validates the form, stores the upload, prices the order and
// answers with the rendered invoice. Validation failures flash a message and
// send the customer back to the form.
func (s *storefront) checkout(c *gin.Context) {
	if err := parseForm(c.Request); err != nil {
		if isBodyTooLarge(err) {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		s.logger.WithError(err).Warn("parse checkout form")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	form := c.Request.PostForm

	customerName := strings.TrimSpace(form.Get("customer_name"))
	contact := strings.TrimSpace(form.Get("contact"))
	if customerName == "" {
		s.reject(c, invoice.MsgCustomerRequired)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		s.logger.WithError(err).Warn("read uploaded file")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	var (
		body     io.Reader
		filename string
	)
	if file != nil {
		defer file.Close()
		body, filename = file, header.Filename
	}

	stored, err := s.uploads.Accept(body, filename)
	if err != nil {
		s.fail(c, err)
		return
	}

	items, subtotal := pricing.PriceOrder(form, s.catalog)

	inv, err := s.invoices.Generate(c.Request.Context(), invoice.GenerateInput{
		CustomerName:     customerName,
		Contact:          contact,
		UploadedFilename: stored.Name,
		Items:            items,
		Subtotal:         subtotal,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", inv.HTML)
}

func (s *storefront) fail(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.reject(c, verr.Message)
		return
	}
	s.logger.WithError(err).Error("checkout failed")
	c.AbortWithStatus(http.StatusInternalServerError)
}

// reject flashes msg and redirects back to the order form.
func (s *storefront) reject(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, flashKey)
	if err := session.Save(); err != nil {
		s.logger.WithError(err).Warn("save flash message")
	}
	c.Redirect(http.StatusFound, "/")
}

func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large") || errors.Is(err, multipart.ErrMessageTooLarge)
}

func acceptAttr() string {
	exts := make([]string, 0, len(upload.AllowedExtensions))
	for ext := range upload.AllowedExtensions {
		exts = append(exts, "."+ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ",")
}
