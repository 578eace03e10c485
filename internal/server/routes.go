package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/runoshun/taskflow/internal/domain"
)

type handler struct {
	repo   Repository
	logger *slog.Logger
}

// registerRoutes sets up all routes on the Gin router.
func registerRoutes(router *gin.Engine, h *handler) {
	router.GET("/tasks", h.listTasks)
	router.GET("/tasks/:id", h.getTask)
	router.POST("/tasks", h.postTask)
	router.DELETE("/tasks/:id", h.deleteTask)
	router.DELETE("/tasks", h.clearTasks)

	router.GET("/epics", h.listEpics)
	router.GET("/epics/:id", h.getEpic)
	router.GET("/epics/:id/subtasks", h.epicSubtasks)
	router.POST("/epics", h.postEpic)
	router.DELETE("/epics/:id", h.deleteEpic)
	router.DELETE("/epics", h.clearEpics)

	router.GET("/subtasks", h.listSubtasks)
	router.GET("/subtasks/:id", h.getSubtask)
	router.POST("/subtasks", h.postSubtask)
	router.DELETE("/subtasks/:id", h.deleteSubtask)
	router.DELETE("/subtasks", h.clearSubtasks)

	router.GET("/history", h.history)
	router.GET("/prioritized", h.prioritized)
	router.GET("/health", h.health)
}

// === Tasks ===

func (h *handler) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, mapDTO(h.repo.GetAllTasks(), taskDTO))
}

func (h *handler) getTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	task, err := h.repo.GetTaskByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, taskDTO(task))
}

func (h *handler) postTask(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	task, err := in.toTask()
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusOK
	if task.ID == 0 {
		task, err = h.repo.CreateTask(task)
		status = http.StatusCreated
	} else {
		task, err = h.repo.UpdateTask(task)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, taskDTO(task))
}

func (h *handler) deleteTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	task, err := h.repo.RemoveTaskByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, taskDTO(task))
}

func (h *handler) clearTasks(c *gin.Context) {
	if err := h.repo.RemoveAllTasks(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// === Epics ===

func (h *handler) listEpics(c *gin.Context) {
	c.JSON(http.StatusOK, mapDTO(h.repo.GetAllEpics(), epicDTO))
}

func (h *handler) getEpic(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	epic, err := h.repo.GetEpicByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, epicDTO(epic))
}

// epicSubtasks lists the subtasks of an epic. An unknown epic has none.
// Listing is not an access, so history is left alone.
func (h *handler) epicSubtasks(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, mapDTO(h.repo.GetSubtasksByEpicID(id), subtaskDTO))
}

func (h *handler) postEpic(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	if in.ID < 0 {
		h.fail(c, fmt.Errorf("%w: id must not be negative", errBadRequest))
		return
	}
	epic := domain.NewEpic(in.Title, in.Description)
	epic.ID = in.ID

	var err error
	status := http.StatusOK
	if epic.ID == 0 {
		epic, err = h.repo.CreateEpic(epic)
		status = http.StatusCreated
	} else {
		epic, err = h.repo.UpdateEpic(epic)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, epicDTO(epic))
}

func (h *handler) deleteEpic(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	epic, err := h.repo.RemoveEpicByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, epicDTO(epic))
}

func (h *handler) clearEpics(c *gin.Context) {
	if err := h.repo.RemoveAllEpics(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// === Subtasks ===

func (h *handler) listSubtasks(c *gin.Context) {
	c.JSON(http.StatusOK, mapDTO(h.repo.GetAllSubtasks(), subtaskDTO))
}

func (h *handler) getSubtask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	subtask, err := h.repo.GetSubtaskByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, subtaskDTO(subtask))
}

func (h *handler) postSubtask(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	task, err := in.toTask()
	if err != nil {
		h.fail(c, err)
		return
	}
	subtask := domain.Subtask{Task: task}
	if in.EpicID != nil {
		subtask.EpicID = *in.EpicID
	}

	status := http.StatusOK
	if subtask.ID == 0 {
		subtask, err = h.repo.CreateSubtask(subtask)
		status = http.StatusCreated
	} else {
		subtask, err = h.repo.UpdateSubtask(subtask)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(status, subtaskDTO(subtask))
}

func (h *handler) deleteSubtask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	subtask, err := h.repo.RemoveSubtaskByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, subtaskDTO(subtask))
}

func (h *handler) clearSubtasks(c *gin.Context) {
	if err := h.repo.RemoveAllSubtasks(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// === Views ===

func (h *handler) history(c *gin.Context) {
	c.JSON(http.StatusOK, mapDTO(h.repo.GetHistory(), recordToDTO))
}

func (h *handler) prioritized(c *gin.Context) {
	c.JSON(http.StatusOK, mapDTO(h.repo.GetPrioritizedTasks(), recordToDTO))
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"stats":  h.repo.Stats(),
	})
}

// === Helpers ===

// pathID parses the :id parameter, answering 400 when it is not a positive integer.
func (h *handler) pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		h.fail(c, fmt.Errorf("%w: invalid id %q", errBadRequest, c.Param("id")))
		return 0, false
	}
	return id, true
}

// bind decodes the JSON body, answering 400 when it is malformed.
func (h *handler) bind(c *gin.Context) (recordDTO, bool) {
	var in recordDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return recordDTO{}, false
	}
	return in, true
}
