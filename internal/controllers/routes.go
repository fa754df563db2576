package controllers

import (
	"context"
	"net/http"

	khttp "github.com/go-kratos/kratos/v2/transport/http"

	// JSON codec 用于请求体解码与响应编码。
	_ "github.com/go-kratos/kratos/v2/encoding/json"
)

// Operation 名称，供日志、限流与 selector 中间件匹配。
const (
	OperationLibraryList        = "/anima.library.v1.Library/ListLibrary"
	OperationLibraryRefresh     = "/anima.library.v1.Library/RefreshLibrary"
	OperationLibraryStats       = "/anima.library.v1.Library/GetStats"
	OperationLibrarySetFilter   = "/anima.library.v1.Library/SetFilter"
	OperationLibraryAddEntry    = "/anima.library.v1.Library/AddEntry"
	OperationLibraryGetEntry    = "/anima.library.v1.Library/GetEntry"
	OperationLibraryStatus      = "/anima.library.v1.Library/UpdateStatus"
	OperationLibraryProgress    = "/anima.library.v1.Library/UpdateProgress"
	OperationLibraryScore       = "/anima.library.v1.Library/UpdateScore"
	OperationLibraryNotes       = "/anima.library.v1.Library/UpdateNotes"
	OperationLibraryRemoveEntry = "/anima.library.v1.Library/RemoveEntry"
	OperationLibraryCanPost     = "/anima.library.v1.Library/CanPost"

	OperationRoomRegister = "/anima.library.v1.Room/RegisterRoom"
	OperationRoomEnter    = "/anima.library.v1.Room/EnterRoom"
	OperationRoomGet      = "/anima.library.v1.Room/GetRoom"
	OperationRoomVerify   = "/anima.library.v1.Room/VerifyRoom"
	OperationRoomMessages = "/anima.library.v1.Room/ListMessages"
	OperationRoomPost     = "/anima.library.v1.Room/PostMessage"
	OperationRoomLeave    = "/anima.library.v1.Room/LeaveRoom"

	OperationSessionLogout = "/anima.library.v1.Session/Logout"
)

// Routes 聚合全部 HTTP Handler，由 HTTP Server 在构造时注册。
type Routes struct {
	library *LibraryHandler
	rooms   *RoomHandler
	session *SessionHandler
}

// NewRoutes 构造 Routes。
func NewRoutes(library *LibraryHandler, rooms *RoomHandler, session *SessionHandler) *Routes {
	return &Routes{library: library, rooms: rooms, session: session}
}

// Register 将路由挂载到 kratos HTTP Server。
func (r *Routes) Register(srv *khttp.Server) {
	router := srv.Route("/")

	lib := r.library
	router.GET("/v1/library", handle(OperationLibraryList, bindQuery, lib.ListLibrary))
	router.POST("/v1/library:refresh", handle(OperationLibraryRefresh, bindQuery, lib.RefreshLibrary))
	router.GET("/v1/library/stats", handle(OperationLibraryStats, bindQuery, lib.GetStats))
	router.PUT("/v1/library/filter", handle(OperationLibrarySetFilter, bindBody, lib.SetFilter))
	router.POST("/v1/library/entries", handle(OperationLibraryAddEntry, bindBody, lib.AddEntry))
	router.GET("/v1/library/entries/{title_id}", handle(OperationLibraryGetEntry, bindQuery, lib.GetEntry))
	router.PATCH("/v1/library/entries/{title_id}/status", handle(OperationLibraryStatus, bindBody, lib.UpdateStatus))
	router.PATCH("/v1/library/entries/{title_id}/progress", handle(OperationLibraryProgress, bindBody, lib.UpdateProgress))
	router.PATCH("/v1/library/entries/{title_id}/score", handle(OperationLibraryScore, bindBody, lib.UpdateScore))
	router.PATCH("/v1/library/entries/{title_id}/notes", handle(OperationLibraryNotes, bindBody, lib.UpdateNotes))
	router.DELETE("/v1/library/entries/{title_id}", handle(OperationLibraryRemoveEntry, bindQuery, lib.RemoveEntry))
	router.GET("/v1/library/entries/{title_id}/can-post", handle(OperationLibraryCanPost, bindQuery, lib.CanPost))

	rooms := r.rooms
	router.POST("/v1/rooms", handle(OperationRoomRegister, bindBody, rooms.RegisterRoom))
	router.POST("/v1/rooms/{room_id}:enter", handle(OperationRoomEnter, bindQuery, rooms.EnterRoom))
	router.GET("/v1/rooms/{room_id}", handle(OperationRoomGet, bindQuery, rooms.GetRoom))
	router.POST("/v1/rooms/{room_id}:verify", handle(OperationRoomVerify, bindQuery, rooms.VerifyRoom))
	router.GET("/v1/rooms/{room_id}/messages", handle(OperationRoomMessages, bindQuery, rooms.ListMessages))
	router.POST("/v1/rooms/{room_id}/messages", handle(OperationRoomPost, bindBody, rooms.PostMessage))
	router.POST("/v1/rooms/{room_id}:leave", handle(OperationRoomLeave, bindQuery, rooms.LeaveRoom))

	router.DELETE("/v1/session", handle(OperationSessionLogout, bindQuery, r.session.Logout))
}

type bindMode int

const (
	bindQuery bindMode = iota
	bindBody
)

// handle 按 kratos 生成代码的方式绑定请求、设置 Operation 并经过 Server 中间件链。
func handle[Req, Resp any](operation string, mode bindMode, call func(context.Context, *Req) (*Resp, error)) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		var in Req
		if mode == bindBody {
			if err := ctx.Bind(&in); err != nil {
				return invalidArgument("decode body: %v", err)
			}
		} else if err := ctx.BindQuery(&in); err != nil {
			return invalidArgument("decode query: %v", err)
		}
		if err := ctx.BindVars(&in); err != nil {
			return invalidArgument("decode path: %v", err)
		}

		khttp.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(http.StatusOK, out)
	}
}
