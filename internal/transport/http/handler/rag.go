package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"censusqa/internal/app"
	"censusqa/internal/model"
	"censusqa/internal/transport/http/middleware"
	"censusqa/internal/transport/http/response"
)

type RAGHandler struct {
	controller *app.Controller
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

type ContextChunk struct {
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
	Content    string  `json:"content"`
}

type AskResponse struct {
	Question       string         `json:"question"`
	Answer         string         `json:"answer"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
	Context        []ContextChunk `json:"context"`
}

type StatusResponse struct {
	State     string     `json:"state"`
	Documents int        `json:"documents"`
	Chunks    int        `json:"chunks"`
	BuiltAt   *time.Time `json:"built_at,omitempty"`
}

func NewRAGHandler(controller *app.Controller) *RAGHandler {
	return &RAGHandler{controller: controller}
}

// BuildIndex runs the build for the caller's session, or reports the existing index.
func (h *RAGHandler) BuildIndex(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "session missing")
		return
	}
	result, err := h.controller.BuildIndex(detached(c), sess)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *RAGHandler) Ask(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "session missing")
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	answer, err := h.controller.Ask(detached(c), sess, req.Question)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := AskResponse{
		Question:       answer.Question,
		Answer:         answer.Text,
		ElapsedSeconds: answer.ElapsedSeconds(),
		Context:        make([]ContextChunk, 0, len(answer.Context)),
	}
	for _, rc := range answer.Context {
		resp.Context = append(resp.Context, ContextChunk{
			Source:     rc.Source,
			ChunkIndex: rc.ChunkIdx,
			Score:      rc.Score,
			Content:    rc.Content,
		})
	}
	response.OK(c, resp)
}

func (h *RAGHandler) Status(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "session missing")
		return
	}
	status := StatusResponse{State: sess.State().String()}
	if built := sess.Built(); built != nil {
		status.Documents = built.Documents
		status.Chunks = built.Chunks
		builtAt := built.BuiltAt
		status.BuiltAt = &builtAt
	}
	response.OK(c, status)
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, model.ErrPrecondition):
		response.Error(c, http.StatusConflict, response.CodePrecondition, app.PreconditionMessage)
	case errors.Is(err, model.ErrIngestion):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeIngestion, err.Error())
	case errors.Is(err, model.ErrEmbeddingService), errors.Is(err, model.ErrCompletionService):
		response.Error(c, http.StatusBadGateway, response.CodeUpstream, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal error")
	}
}
