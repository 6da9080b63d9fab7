// Package websocket pushes course list changes to connected browsers over
// socket.io, so every open listing view re-renders without polling.
package websocket

import (
	"courseboard/catalog"
	"courseboard/core"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/engine.io/v2/utils"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

// catalogRoom is the single room every connected client joins.
const catalogRoom = socketio.Room("catalog")

// SetupSocketIO wires a socket.io server to the catalog's change feed.
// Clients receive "catalog-snapshot" with the current list on connect and
// "catalog-change" with the fresh snapshot after every mutation. The
// returned subscription should be cancelled on shutdown.
func SetupSocketIO(cat *catalog.Catalog) (*socketio.Server, *catalog.Subscription) {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(5000000)
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	srv := socketio.NewServer(nil, opts)

	srv.On("connection", func(clients ...any) {
		socket, ok := clients[0].(*socketio.Socket)
		if !ok {
			return
		}

		me := socket.Id()
		myRoom := socketio.Room(me)
		socket.Join(catalogRoom)
		utils.Log().Printf("socket %v joined catalog feed\n", me)

		srv.To(myRoom).Emit("catalog-snapshot", cat.Snapshot())

		socket.On("disconnect", func(datas ...any) {
			utils.Log().Printf("socket %v left catalog feed\n", me)
			socket.RemoveAllListeners("")
			socket.Disconnect(true)
		})
	})

	sub := cat.Subscribe(func(snapshot []core.Course) {
		srv.To(catalogRoom).Emit("catalog-change", snapshot)
	})

	return srv, sub
}
