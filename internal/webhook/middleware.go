package webhook

import (
	"sms_relay_backend/platform/apperr"
	"sms_relay_backend/platform/httpkit"
	"sms_relay_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/client"
)

const headerTwilioSignature = "X-Twilio-Signature"

// TwilioSignatureMiddleware rejects requests whose X-Twilio-Signature does
// not match the form parameters signed with the account auth token.
// baseURL must be the scheme and host Twilio posts to when the service sits
// behind a proxy.
func TwilioSignatureMiddleware(authToken, baseURL string, log *logger.Logger) gin.HandlerFunc {
	requestValidator := client.NewRequestValidator(authToken)

	return func(c *gin.Context) {
		signature := c.GetHeader(headerTwilioSignature)
		if signature == "" {
			abort(c, apperr.Forbidden("missing Twilio signature"))
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			abort(c, apperr.BadRequest(errInvalidRequest).WithDetails(err.Error()))
			return
		}

		params := make(map[string]string, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		url := publicBaseURL(c, baseURL) + c.Request.URL.RequestURI()
		if !requestValidator.Validate(url, params, signature) {
			log.WithContext(c.Request.Context()).Warn("rejected webhook with invalid Twilio signature", "url", url)
			abort(c, apperr.Forbidden("invalid Twilio signature"))
			return
		}

		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	httpkit.HandleError(c, err)
	c.Abort()
}
