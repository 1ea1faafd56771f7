package trackerserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/order-tracker/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}
