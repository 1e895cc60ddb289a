package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"printshop/internal/domain"
	"printshop/internal/service/printing"
)

type apiResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func printUploadHandler(svc printService, logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")
		err := svc.RequestPrint(filename)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, apiResult{OK: true})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, apiResult{Error: printing.MsgFileNotFound})
		case errors.Is(err, domain.ErrNotImplemented):
			c.JSON(http.StatusNotImplemented, apiResult{Error: printing.MsgDisabled})
		default:
			logger.WithError(err).WithField("filename", filename).Error("print request failed")
			c.JSON(http.StatusInternalServerError, apiResult{Error: err.Error()})
		}
	}
}

// apiRecovery turns panics inside the API group into the JSON error shape.
func apiRecovery(logger *logrus.Entry) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.WithField("panic", recovered).WithField("path", c.FullPath()).Error("api handler panicked")
		c.AbortWithStatusJSON(http.StatusInternalServerError, apiResult{Error: fmt.Sprint(recovered)})
	}
}

func ledgerDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, apiResult{Error: "order ledger not configured"})
}

func listOrdersHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			ledgerDisabled(c)
			return
		}
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		page, err := svc.List(c.Request.Context(), limit, offset)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, apiResult{Error: "list orders failed"})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getOrderHandler(svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			ledgerDisabled(c)
			return
		}
		order, err := svc.Get(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, apiResult{Error: "order not found"})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, apiResult{Error: "get order failed"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
