package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"playlist-bot/storage"
)

// History is the read-only view of the play log the API serves.
type History interface {
	SongsByDJ(dj string, since time.Time) ([]storage.Record, error)
	LastPlayed() (*storage.Record, error)
}

// defaultLookbackHours bounds /songs-by-dj when no window is given.
const defaultLookbackHours = 12

type songResponse struct {
	Datetime string `json:"datetime"`
	DJ       string `json:"dj"`
	Song     string `json:"song"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
}

type lastPlayedResponse struct {
	songResponse
	SpinID   string `json:"spin_id"`
	AlbumArt string `json:"album_art"`
}

// NewRouter builds the gin engine for the history query service. The service
// is read-only and is never called by the ingestion pipeline.
func NewRouter(history History) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/songs-by-dj", func(c *gin.Context) {
		dj := c.Query("dj")
		if dj == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "DJ name is required"})
			return
		}

		hours := defaultLookbackHours
		if raw := c.Query("hours"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
				return
			}
			hours = n
		}

		since := time.Now().Add(-time.Duration(hours) * time.Hour)
		records, err := history.SongsByDJ(dj, since)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not query history"})
			return
		}

		songs := make([]songResponse, 0, len(records))
		for _, r := range records {
			songs = append(songs, toSongResponse(r))
		}
		c.JSON(http.StatusOK, songs)
	})

	router.GET("/last-played", func(c *gin.Context) {
		record, err := history.LastPlayed()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not query history"})
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no plays recorded yet"})
			return
		}

		c.JSON(http.StatusOK, lastPlayedResponse{
			songResponse: toSongResponse(*record),
			SpinID:       record.SpinID,
			AlbumArt:     record.AlbumArt,
		})
	})

	return router
}

func toSongResponse(r storage.Record) songResponse {
	return songResponse{
		Datetime: time.Unix(r.RecordedAt, 0).Format("2006-01-02 15:04:05"),
		DJ:       r.DJ,
		Song:     r.Song,
		Artist:   r.Artist,
		Album:    r.Album,
	}
}
