package ipc

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
	"github.com/lixenwraith/liquid-glass/scene"
)

func (s *Server) handleCommand(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := s.eng.Execute(c.Request.Context(), command.ForNode(req.Node), req.Command)
	code := statusFor(err)
	if code == http.StatusServiceUnavailable {
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(code, command.NewResult(err))
}

func (s *Server) handleScript(c *gin.Context) {
	node, err := queryNode(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, parameter.MaxScriptBytes)
	applied, err := s.eng.RunScript(c.Request.Context(), command.ForNode(node), body)
	code := statusFor(err)
	if code == http.StatusServiceUnavailable {
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	c.JSON(code, ScriptReply{Applied: applied, Result: command.NewResult(err)})
}

func (s *Server) handleConfig(c *gin.Context) {
	f, err := s.eng.Sync(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ConfigReply{Generation: f.Generation, Params: f.Global})
}

func (s *Server) handleDirectives(c *gin.Context) {
	c.JSON(http.StatusOK, DirectiveTable())
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.eng.Status().Snapshot())
}

func (s *Server) handleListNodes(c *gin.Context) {
	f, err := s.eng.Sync(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, NodeViews(f, s.eng.Tree().Nodes()))
}

func (s *Server) handleCreateNode(c *gin.Context) {
	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.eng.CreateNode(c.Request.Context(), req.Parent, req.Name)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	case errors.Is(err, scene.ErrParentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleDestroyNode(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == uint64(scene.Root) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid node id " + strconv.Quote(c.Param("id"))})
		return
	}

	removed, err := s.eng.DestroyNode(c.Request.Context(), glass.NodeID(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// NodeViews pairs each node with the enable flag it was rendered with
// Nodes created after f was produced resolve against f's global parameters
func NodeViews(f *engine.Frame, nodes []scene.Node) []NodeView {
	out := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		p, ok := f.Effective(n.ID)
		if !ok {
			p = glass.Resolve(f.Global, n.Override)
		}
		out = append(out, NodeView{Node: n, Effective: p.Enabled})
	}
	return out
}

func queryNode(c *gin.Context) (glass.NodeID, error) {
	raw := c.Query("node")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, command.ErrInvalidCriteria
	}
	return glass.NodeID(id), nil
}
