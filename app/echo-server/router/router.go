package router

import (
	"myCatalog/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc, selfOrAdmin echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.GET("/me", handler.Me, authRequired)
	users.POST("/logout", handler.Logout, authRequired)
	users.PUT("/:id", handler.UpdateUser, authRequired, selfOrAdmin)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.GET("/:id", handler.GetUserByID, authRequired, selfOrAdmin)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, compare *rest.CompareHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
	categories.GET("/:id/specs", compare.CategorySpecs)
	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}

func SetupCompareRoutes(api *echo.Group, handler *rest.CompareHandler) {
	api.POST("/compare", handler.Compare)
}

// SetupReviewRoutes: reads accept an optional token so the viewer's own vote
// and moderation visibility can be resolved.
func SetupReviewRoutes(api *echo.Group, handler *rest.ReviewHandler, authOptional echo.MiddlewareFunc, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	api.GET("/products/:id/reviews", handler.ListByProduct, authOptional)
	api.POST("/products/:id/reviews", handler.Create, authRequired)

	reviews := api.Group("/reviews")
	reviews.GET("/:id", handler.Get, authOptional)
	reviews.PUT("/:id", handler.Update, authRequired)
	reviews.DELETE("/:id", handler.Delete, authRequired)
	reviews.PATCH("/:id/status", handler.SetStatus, authRequired, adminOnly)
	reviews.POST("/:id/like", handler.Like, authRequired)
	reviews.POST("/:id/dislike", handler.Dislike, authRequired)
	reviews.POST("/:id/replies", handler.AddReply, authRequired)
	reviews.DELETE("/:id/replies/:replyId", handler.RemoveReply, authRequired)
}
