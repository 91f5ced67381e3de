package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/code"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/internal/error/response"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services"
	"github.com/bigjaminben/Wichita-Airport-Flight-Tracker/services/container"
)

// BackupController handles backup management requests
type BackupController struct {
	BaseControllerImpl
}

// NewBackupController creates a new backup controller
func (f *ControllerFactory) NewBackupController(ctx *gin.Context) *BackupController {
	return &BackupController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// createBackupRequest is the POST /api/backups body
type createBackupRequest struct {
	Tier           string `json:"tier"`
	IncludeArchive bool   `json:"include_archive"`
}

// ListBackups returns all snapshots on disk plus summary stats
func (c *BackupController) ListBackups() {
	backups := c.Container.GetBackupService()

	list, err := backups.ListBackups()
	if err != nil {
		response.FailWithError(c.Context, code.ErrBackupFailed, nil, err)
		return
	}
	stats, err := backups.GetStats()
	if err != nil {
		response.FailWithError(c.Context, code.ErrBackupFailed, nil, err)
		return
	}

	response.Success(c.Context, gin.H{
		"backups": list,
		"stats":   stats,
	})
}

// CreateBackup runs an on-demand database snapshot, optionally with an
// archive tarball
func (c *BackupController) CreateBackup() {
	var req createBackupRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil && c.Context.Request.ContentLength > 0 {
		response.ParamError(c.Context, "invalid request body")
		return
	}
	if req.Tier == "" {
		req.Tier = services.BackupTierHourly
	}

	backups := c.Container.GetBackupService()

	dbBackup, err := backups.RunBackup(req.Tier)
	if err != nil {
		response.FailWithError(c.Context, code.ErrBackupFailed, nil, err)
		return
	}

	result := gin.H{"database": dbBackup}
	if req.IncludeArchive {
		archiveBackup, err := backups.BackupArchive(req.Tier)
		if err != nil {
			response.FailWithError(c.Context, code.ErrBackupFailed, result, err)
			return
		}
		result["archive"] = archiveBackup
	}

	response.Success(c.Context, result)
}

// PruneBackups enforces retention and compresses aged snapshots
func (c *BackupController) PruneBackups() {
	backups := c.Container.GetBackupService()

	compressed, err := backups.CompressOldBackups()
	if err != nil {
		response.FailWithError(c.Context, code.ErrPruneFailed, nil, err)
		return
	}
	removed, err := backups.Prune()
	if err != nil {
		response.FailWithError(c.Context, code.ErrPruneFailed, gin.H{"compressed": compressed}, err)
		return
	}

	response.Success(c.Context, gin.H{
		"compressed": compressed,
		"removed":    removed,
	})
}

// HandleBackupFunc returns a gin handler dispatching to a backup
// controller method
func HandleBackupFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewBackupController(ctx)

		switch method {
		case "listBackups":
			controller.ListBackups()
		case "createBackup":
			controller.CreateBackup()
		case "pruneBackups":
			controller.PruneBackups()
		default:
			response.ParamError(ctx, "invalid method")
		}
	}
}
