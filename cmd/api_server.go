package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rm-hull/png-chunks/internal/png"
	healthcheck "github.com/tavsec/gin-healthcheck"
	"github.com/tavsec/gin-healthcheck/checks"
	hc_config "github.com/tavsec/gin-healthcheck/config"
)

const maxDimension = 4096

var maxUploadBytes int64 = 32 << 20

func ApiServer(port int, debug bool) {

	r := gin.New()

	prometheus := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prometheus.Instrument(),
		cors.Default(),
	)

	if debug {
		log.Println("WARNING: pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	err := healthcheck.New(r, hc_config.DefaultConfig(), []checks.Check{})
	if err != nil {
		log.Fatalf("failed to initialize healthcheck: %v", err)
	}

	registerRoutes(r)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting HTTP API Server on port %d...", port)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP API Server failed to start on port %d: %v", port, err)
	}
}

func registerRoutes(r *gin.Engine) {
	v1 := r.Group("/v1/png")
	v1.GET("/draw", drawHandler)
	v1.POST("/inspect", inspectHandler)
}

func dimensionParam(c *gin.Context, name string) (uint32, error) {
	value, err := strconv.Atoi(c.DefaultQuery(name, "101"))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if value < 1 || value > maxDimension {
		return 0, fmt.Errorf("%s must be between 1 and %d", name, maxDimension)
	}
	return uint32(value), nil
}

func drawHandler(c *gin.Context) {
	width, err := dimensionParam(c, "width")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	height, err := dimensionParam(c, "height")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	colour, err := png.ParseColourType(c.DefaultQuery("colour", png.Grayscale.String()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	depth, err := strconv.ParseUint(c.DefaultQuery("depth", "1"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be an integer between 0 and 255"})
		return
	}

	img, err := Diagonals(width, height, uint8(depth), colour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Encode writes nothing when serialisation fails, so the JSON error
	// response is still possible.
	c.Header("Content-Type", "image/png")
	if err := img.Encode(c.Writer); err != nil {
		c.Writer.Header().Del("Content-Type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func inspectHandler(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": fmt.Sprintf("failed to read body: %v", err)})
		return
	}

	img, err := png.FromBytes(body)
	if err != nil {
		status := http.StatusBadRequest
		var fe *png.FormatError
		if errors.As(err, &fe) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewReport(img, c.Query("verify") == "true"))
}
