package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every HTTP-facing component so the app
// bootstrap can mount them uniformly.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
