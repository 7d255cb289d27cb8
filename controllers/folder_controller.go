package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jusdesk/jusdesk_backend/models"
	"github.com/jusdesk/jusdesk_backend/repositories"
	"github.com/jusdesk/jusdesk_backend/utils"
	"github.com/jusdesk/jusdesk_backend/websocket"
)

// FolderController serves the case folder CRUD surface. Folder updates are
// broadcast to the folder's topic room.
type FolderController struct {
	repo   *repositories.FolderRepository
	bridge *websocket.Bridge
}

func NewFolderController(repo *repositories.FolderRepository, bridge *websocket.Bridge) *FolderController {
	return &FolderController{repo: repo, bridge: bridge}
}

// List returns folders newest-first with optional status/client filters
func (fc *FolderController) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit = paginationParams(page, limit)

	filters := []repositories.Filter{}
	if status := c.QueryParam("status"); status != "" {
		filters = append(filters, repositories.Equals("status", status))
	}
	if clientName := c.QueryParam("clientName"); clientName != "" {
		filters = append(filters, repositories.Equals("clientName", clientName))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	folders, total, err := fc.repo.List(ctx, filters, page, limit)
	if err != nil {
		log.Printf("Error listing folders: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch folders",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Folders fetched successfully",
		Data: map[string]interface{}{
			"folders": folders,
			"total":   total,
			"page":    page,
			"limit":   limit,
		},
	})
}

// Get returns one folder
func (fc *FolderController) Get(c echo.Context) error {
	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid folder ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	folder, err := fc.repo.GetByID(ctx, folderID)
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Folder not found",
			})
		}
		log.Printf("Error fetching folder: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch folder",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Folder fetched successfully",
		Data:    folder,
	})
}

// Create inserts a folder
func (fc *FolderController) Create(c echo.Context) error {
	var req models.FolderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	folder := models.Folder{
		Title:         utils.SanitizeInput(req.Title),
		ClientName:    utils.SanitizeInput(req.ClientName),
		ProcessNumber: req.ProcessNumber,
		Court:         utils.SanitizeInput(req.Court),
		Status:        req.Status,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fc.repo.Create(ctx, &folder); err != nil {
		log.Printf("Error creating folder: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create folder",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Folder created",
		Data:    folder,
	})
}

// Update modifies a folder and broadcasts the change to its topic room
func (fc *FolderController) Update(c echo.Context) error {
	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid folder ID",
		})
	}

	var req models.FolderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	folder, err := fc.repo.Update(ctx, folderID, &req)
	if err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Folder not found",
			})
		}
		log.Printf("Error updating folder: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update folder",
		})
	}

	if fc.bridge != nil {
		fc.bridge.Broadcast(ctx, websocket.FolderRoom(folderID.Hex()), "folder:updated", folder)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Folder updated",
		Data:    folder,
	})
}

// Delete soft-deletes a folder
func (fc *FolderController) Delete(c echo.Context) error {
	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid folder ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fc.repo.SoftDelete(ctx, folderID); err != nil {
		if err == models.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Folder not found",
			})
		}
		log.Printf("Error deleting folder: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete folder",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Folder deleted",
	})
}
