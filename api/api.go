package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/gridsnake/memimg"
	"github.com/hoshinonyaruko/gridsnake/snake"
	"github.com/hoshinonyaruko/gridsnake/sqlite"
	"github.com/hoshinonyaruko/gridsnake/structs"
)

// NewRouter wires every handler onto a gin engine.
func NewRouter(m *Manager, sprites *memimg.Sprites) *gin.Engine {
	router := gin.Default()
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(m))
	// 补跑tick并返回快照
	router.GET("/snapshot", SnapshotHandler(m))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(m, sprites))
	// 删除地图
	router.GET("/delete-map", DeleteMapHandler(m))
	// 实时推送
	router.GET("/ws", StreamHandler(m))
	router.Static("/static", m.cfg.OutputDir) // 静态文件服务
	return router
}

func UpdateDirection(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		newDirection := c.Query("direction")

		// 验证是否提供了必要的查询参数
		if groupID == "" || newDirection == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: groupid or direction"})
			return
		}

		s, err := m.Lookup(groupID)
		if errors.Is(err, sqlite.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No game for this group"})
			return
		}
		if err != nil {
			log.Printf("lookup %s: %v", groupID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game"})
			return
		}

		// accepted表示下一个tick会采用这个方向, 除非之后又有新的输入覆盖
		d, ok := structs.ParseDirection(newDirection)
		accepted := ok && s.PushDirection(d)
		c.JSON(http.StatusOK, gin.H{"accepted": accepted})
	}
}

// openFromQuery reads groupid, width, height and refresh_interval. A missing
// groupid gets a fresh one.
func openFromQuery(c *gin.Context, m *Manager) (*Session, bool) {
	groupID := c.Query("groupid")
	if groupID == "" {
		groupID = NewID()
	}
	width, err1 := strconv.Atoi(c.DefaultQuery("width", "0"))
	height, err2 := strconv.Atoi(c.DefaultQuery("height", "0"))
	refreshInterval, err3 := strconv.Atoi(c.DefaultQuery("refresh_interval", "0"))
	if err := errors.Join(err1, err2, err3); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "width, height and refresh_interval must be integers"})
		return nil, false
	}

	// 获取&创建当前群游戏地图
	s, created, err := m.Open(groupID, width, height, refreshInterval)
	if errors.Is(err, snake.ErrBadGeometry) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		log.Printf("open %s: %v", groupID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch or create game map"})
		return nil, false
	}
	if created {
		log.Printf("created game %s (%dx%d)", s.ID, s.Grid().Width(), s.Grid().Height())
	}
	return s, true
}

// advance runs the elapsed ticks and persists the result.
func advance(m *Manager, s *Session) (structs.RenderSnapshot, int, error) {
	snap, moves, err := s.CatchUp(m.cfg.MaxCatchUp)
	if err != nil && !errors.Is(err, snake.ErrBoardFull) {
		return snap, moves, err
	}
	// 持久化
	if saveErr := m.Save(s); saveErr != nil {
		return snap, moves, saveErr
	}
	return snap, moves, nil
}

func SnapshotHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := openFromQuery(c, m)
		if !ok {
			return
		}
		snap, moves, err := advance(m, s)
		if err != nil {
			log.Printf("advance %s: %v", s.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to advance game"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"group_id": s.ID,
			"state":    s.State().String(),
			"moves":    moves,
			"snapshot": snap,
		})
	}
}

func RenderMapHandler(m *Manager, sprites *memimg.Sprites) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := openFromQuery(c, m)
		if !ok {
			return
		}
		snap, _, err := advance(m, s)
		if err != nil {
			log.Printf("advance %s: %v", s.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to advance game"})
			return
		}

		// 绘图
		fileName := filepath.Join(m.cfg.OutputDir, s.ID+".png")
		if err := renderImageAndSave(snap, s.Grid(), sprites, fileName); err != nil {
			log.Printf("render %s: %v", s.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render game map"})
			return
		}

		imageUrl := fmt.Sprintf("%s/static/%s.png", m.cfg.SelfPath, s.ID)
		c.JSON(http.StatusOK, gin.H{
			"image_url": imageUrl,
			"group_id":  s.ID,
			"state":     s.State().String(),
		})
	}
}

func DeleteMapHandler(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID := c.Query("groupid")
		if groupID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: groupid"})
			return
		}
		if err := m.Delete(groupID); err != nil {
			log.Printf("delete %s: %v", groupID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game map"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Game map deleted successfully"})
	}
}
