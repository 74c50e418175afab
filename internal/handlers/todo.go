package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/studyloop-backend/internal/services"
)

type TodoHandler struct {
	todoService services.TodoService
}

func NewTodoHandler(todoService services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

func (th *TodoHandler) ListTodos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	includeDone := c.Query("include_done") == "true"
	todos, err := th.todoService.ListTodos(c.Request.Context(), userID, includeDone, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (th *TodoHandler) CreateTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	todo, err := th.todoService.CreateTodo(c.Request.Context(), userID, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (th *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	todoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Done *bool `json:"done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Done == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	todo, err := th.todoService.SetDone(c.Request.Context(), userID, todoID, *req.Done)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (th *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	todoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := th.todoService.DeleteTodo(c.Request.Context(), userID, todoID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "todo deleted"})
}
