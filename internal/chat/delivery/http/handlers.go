package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"policy-training-assistant/internal/chat"
	"policy-training-assistant/internal/model"
	"policy-training-assistant/pkg/response"
)

// Chat godoc
// @Summary     Answer a policy or training question
// @Description Classifies the message, retrieves supporting evidence and returns a guarded answer with its sources.
// @Tags        Chat
// @Accept      json
// @Produce     json
// @Param       body body chatReq true "User message"
// @Success     200 {object} chatResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/chat [POST]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processChatReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Handle(ctx, req.toScope(), req.toInput())
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			response.Error(c, err, nil)
			return
		}
		if isUpstreamFailure(err) {
			// Degraded but user-facing: templated apology, empty evidence.
			h.l.Errorf(ctx, "uc.Handle: upstream failure: %v", err)
			response.OK(c, degradedResp(model.RouteGenerativeOnly))
			return
		}
		h.l.Errorf(ctx, "uc.Handle: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, h.newChatResp(output))
}
