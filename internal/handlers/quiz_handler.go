package handlers

import (
	"context"
	"net/http"

	"mockquiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

// CreateMockQuiz handles POST /quizzes. The authenticated user comes from
// the X-User-ID header set by the gateway.
func (h *QuizHandler) CreateMockQuiz(c *gin.Context) {
	userID := c.GetString("userID")
	var req service.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	quiz, err := h.Service.CreateMockQuiz(context.Background(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"quiz_id":        quiz.ID,
		"title":          quiz.Title,
		"question_count": quiz.QuestionCount,
	})
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.Service.GetQuiz(context.Background(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) ListMyQuizzes(c *gin.Context) {
	userID := c.GetString("userID")
	quizzes, err := h.Service.ListQuizzesByCreator(context.Background(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}
