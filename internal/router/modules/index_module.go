package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/dog-registry/internal/interface/http"
)

type IndexModule struct{}

func NewIndexModule() *IndexModule { return &IndexModule{} }

func (m *IndexModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", handlers.Index)
}
