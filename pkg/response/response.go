package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess     = 0
	CodeParamError  = 400
	CodeNotFound    = 404
	CodeServerError = 500
)

// Business error codes. Validation failures are refused, never fatal.
const (
	CodeMemberNotFound      = 1001
	CodeProductNotFound     = 1002
	CodePrizeNotFound       = 1003
	CodeReservationNotFound = 1004
	CodeRedemptionNotFound  = 1005
	CodeEventNotFound       = 1006
	CodeNotEligible         = 1007
	CodeInsufficientStock   = 1008
	CodeInsufficientPoints  = 1009
	CodePrizeInactive       = 1010
	CodePrizeOutOfStock     = 1011
	CodeAlreadyConfirmed    = 1012
	CodeAlreadyCanceled     = 1013
	CodeInvalidTransition   = 1014
	CodeDuplicateMember     = 1015
	CodeAlreadyAttended     = 1016
	CodeConcurrentUpdate    = 1017
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

func NotFound(c *gin.Context, code int, message string) {
	Error(c, code, message)
}

func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}

func BusinessError(c *gin.Context, code int, message string) {
	Error(c, code, message)
}
