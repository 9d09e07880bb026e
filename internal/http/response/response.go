package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nurture-backend/internal/platform/apierr"
	"github.com/yungbote/nurture-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Envelope is the success body: {"data": ..., "meta": ...}.
type Envelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// Error aborts the request with err's status and code. Errors that are not
// *apierr.Error become 500 internal.
func Error(c *gin.Context, err error) {
	ae := apierr.From(err)
	Abort(c, ae.Status, ae.Code, ae)
}

// Abort writes the error envelope and stops the handler chain. Server-side
// failures are attached to the gin context for the request logger and are
// not echoed to the client.
func Abort(c *gin.Context, status int, code string, err error) {
	if status >= http.StatusInternalServerError && err != nil {
		_ = c.Error(err)
	}
	env := ErrorEnvelope{Error: APIError{
		Message: apierr.PublicMessage(status, err),
		Code:    code,
	}}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		env.Error.RequestID = td.RequestID
	}
	c.AbortWithStatusJSON(status, env)
}

func Data(c *gin.Context, data any, meta any) {
	c.JSON(http.StatusOK, Envelope{Data: data, Meta: meta})
}
