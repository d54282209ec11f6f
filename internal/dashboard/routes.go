package dashboard

import (
	"errors"
	"image/png"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wharfline/depot/internal/export"
	"github.com/wharfline/depot/internal/label"
	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/quiz"
	"github.com/wharfline/depot/internal/warehouse"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	api := router.Group("/api")

	api.GET("/loads", handleListLoads(opts.Engine))
	api.POST("/loads", handleAddLoad(opts.Engine))
	api.GET("/loads/:id", handleGetLoad(opts.Engine))
	api.PATCH("/loads/:id", handleUpdateLoad(opts.Engine))
	api.DELETE("/loads/:id", handleDeleteLoad(opts.Engine))
	api.PUT("/loads/:id/status", handleUpdateLoadStatus(opts.Engine))
	api.GET("/loads/:id/shipments", handleLoadShipments(opts.Engine))

	api.GET("/shipments", handleListShipments(opts.Engine))
	api.POST("/shipments", handleAddShipment(opts.Engine))
	api.GET("/shipments/:id", handleGetShipment(opts.Engine))
	api.PATCH("/shipments/:id", handleUpdateShipment(opts.Engine))
	api.DELETE("/shipments/:id", handleDeleteShipment(opts.Engine))
	api.POST("/shipments/:id/printed", handleMarkPrinted(opts.Engine))
	api.GET("/shipments/:id/label.png", handleShipmentLabel(opts.Engine, opts.Renderer))

	api.GET("/quiz/items", handleQuizItems(opts.Engine))
	api.GET("/reports", handleListReports(opts.Engine))
	api.POST("/reports", handleAddReport(opts.Engine))

	api.POST("/loads/:id/export/images", handleExport(opts.Engine, opts.Exporter, exportImages))
	api.POST("/loads/:id/export/composites", handleExport(opts.Engine, opts.Exporter, exportComposites))
	api.POST("/loads/:id/export/pdf", handleExport(opts.Engine, opts.Exporter, exportPDF))

	api.GET("/events", handleSSE(opts.Engine))
}

// fail maps engine errors onto HTTP statuses. Validation failures are the
// caller's fault; everything else is a server error.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, warehouse.ErrValidation) {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func handleListLoads(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Loads())
	}
}

func handleAddLoad(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form warehouse.LoadForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := eng.AddLoad(form); err != nil {
			fail(c, err)
			return
		}
		load, _ := eng.GetLoadByID(form.ID)
		c.JSON(http.StatusCreated, load)
	}
}

func handleGetLoad(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		load, ok := eng.GetLoadByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "load not found"})
			return
		}
		c.JSON(http.StatusOK, load)
	}
}

func handleUpdateLoad(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd warehouse.LoadUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := eng.UpdateLoad(c.Param("id"), upd); err != nil {
			fail(c, err)
			return
		}
		// Updates of unknown ids are accepted silently.
		if load, ok := eng.GetLoadByID(c.Param("id")); ok {
			c.JSON(http.StatusOK, load)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDeleteLoad(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := eng.DeleteLoad(c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleUpdateLoadStatus(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Status models.LoadStatus `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := eng.UpdateLoadStatus(c.Param("id"), body.Status); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleLoadShipments(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.GetShipmentsByLoadID(c.Param("id")))
	}
}

func handleListShipments(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.Shipments())
	}
}

func handleAddShipment(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form warehouse.ShipmentForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		shipment, err := eng.AddShipment(form)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, shipment)
	}
}

func handleGetShipment(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipment, ok := eng.GetShipmentByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
			return
		}
		c.JSON(http.StatusOK, shipment)
	}
}

func handleUpdateShipment(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd warehouse.ShipmentUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := eng.UpdateShipment(c.Param("id"), upd); err != nil {
			fail(c, err)
			return
		}
		if shipment, ok := eng.GetShipmentByID(c.Param("id")); ok {
			c.JSON(http.StatusOK, shipment)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDeleteShipment(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := eng.DeleteShipment(c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleMarkPrinted(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := eng.MarkShipmentAsPrinted(c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleShipmentLabel(eng *warehouse.Engine, renderer export.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if renderer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "label rendering not configured"})
			return
		}
		shipment, ok := eng.GetShipmentByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "shipment not found"})
			return
		}
		load, _ := eng.GetLoadByID(shipment.LoadID)

		img, err := renderer.Render(label.ContentFor(shipment, load, timeNow()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		png.Encode(c.Writer, img)
	}
}

func handleQuizItems(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipments := eng.Shipments()
		if loadID := c.Query("loadId"); loadID != "" {
			shipments = eng.GetShipmentsByLoadID(loadID)
		}
		c.JSON(http.StatusOK, quiz.BuildItems(eng.Loads(), shipments))
	}
}

func handleListReports(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, eng.QuizReports())
	}
}

func handleAddReport(eng *warehouse.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var report models.QuizReport
		if err := c.ShouldBindJSON(&report); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		added, err := eng.AddQuizReport(report)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, added)
	}
}

type exportMode int

const (
	exportImages exportMode = iota
	exportComposites
	exportPDF
)

func handleExport(eng *warehouse.Engine, exp *export.Exporter, mode exportMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		if exp == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "label export not configured"})
			return
		}
		load, ok := eng.GetLoadByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "load not found"})
			return
		}

		shipments := eng.GetShipmentsByLoadID(load.ID)
		items := make([]export.Item, 0, len(shipments))
		for _, s := range shipments {
			items = append(items, export.Item{Shipment: s, Load: load})
		}

		var (
			res export.Result
			err error
		)
		ctx := c.Request.Context()
		switch mode {
		case exportComposites:
			res, err = exp.ExportComposites(ctx, load.ID, items)
		case exportPDF:
			res, err = exp.ExportPDF(ctx, load.ID, items)
		default:
			res, err = exp.ExportImages(ctx, load.ID, items)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		failures := make([]gin.H, 0, len(res.Failures))
		for _, f := range res.Failures {
			failures = append(failures, gin.H{"stsJob": f.StsJob, "error": f.Err.Error()})
		}
		c.JSON(http.StatusOK, gin.H{
			"artifacts": res.Artifacts,
			"failures":  failures,
		})
	}
}
