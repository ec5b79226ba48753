package handlers

import (
	"net/http"
	"sync"

	"food-ordering-api/errs"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds the collaborators every endpoint needs.
type Handler struct {
	svc    *service.Services
	auth   *middleware.Auth
	logger *zap.SugaredLogger
}

func New(svc *service.Services, auth *middleware.Auth, logger *zap.SugaredLogger) *Handler {
	RegisterValidators()
	return &Handler{svc: svc, auth: auth, logger: logger}
}

// respondError writes {"message": ...} with the status of the error's kind. Internal errors
// echo their raw message and are logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := errs.Status(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		h.logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"message": err.Error()})
}

// bind decodes the JSON body, answering 400 itself when that fails.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return false
	}
	return true
}

func statusQuery(c *gin.Context) models.OrderStatus {
	return models.OrderStatus(c.Query("status"))
}

var registerOnce sync.Once

// RegisterValidators adds the "ref" (document id) and "role" binding tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
			return models.ValidID(fl.Field().String())
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).Valid()
		})
	})
}
