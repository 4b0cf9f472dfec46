package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/controllers"
	"pos-api/metrics"
	"pos-api/middlewares"
	"pos-api/sale"
	"pos-api/services"
	"pos-api/store"
)

// RegisterRoutes wires every controller onto the engine. The repository
// and sale manager are owned by main and passed down from there.
func RegisterRoutes(r *gin.Engine, repo store.Repository, sales *sale.Manager, jwtSecret string) {
	auth := controllers.NewAuthController(services.NewAuthService(repo, jwtSecret))
	productCtl := controllers.NewProductController(repo)
	saleCtl := controllers.NewSaleController(sales)
	txCtl := controllers.NewTransactionController(repo)
	dashboardCtl := controllers.NewDashboardController(repo)
	reportCtl := controllers.NewReportController(repo)
	cashCtl := controllers.NewCashSessionController(repo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/login", auth.Login)

	// Products
	products := r.Group("/products")
	products.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		products.GET("/", productCtl.GetProducts)
		products.GET("/categories", productCtl.GetCategories)
		products.GET("/low-stock", middlewares.RoleMiddleware("admin", "manager"), productCtl.GetLowStock)
		products.GET("/:id", productCtl.GetProductByID)
		products.POST("/", middlewares.RoleMiddleware("admin", "manager"), productCtl.CreateProduct)
		products.PUT("/:id", middlewares.RoleMiddleware("admin", "manager"), productCtl.UpdateProduct)
		products.DELETE("/:id", middlewares.RoleMiddleware("admin", "manager"), productCtl.DeleteProduct)
	}

	// Active sale (one per till)
	saleGroup := r.Group("/sale")
	saleGroup.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		saleGroup.GET("/", saleCtl.GetSale)
		saleGroup.DELETE("/", saleCtl.ClearCart)
		saleGroup.POST("/lines", saleCtl.AddLine)
		saleGroup.PATCH("/lines/:productId", saleCtl.UpdateLine)
		saleGroup.DELETE("/lines/:productId", saleCtl.RemoveLine)

		saleGroup.POST("/payment", saleCtl.StartPayment)
		saleGroup.DELETE("/payment", saleCtl.CancelPayment)
		saleGroup.POST("/payment/tenders", saleCtl.AddTender)
		saleGroup.POST("/payment/finalize", saleCtl.FinalizePayment)
	}

	// Transactions
	transactions := r.Group("/transactions")
	transactions.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		transactions.GET("/", txCtl.GetTransactions)
		transactions.GET("/history", txCtl.GetTransactionHistory)
		transactions.GET("/:id", txCtl.GetTransactionByID)
		transactions.POST("/:id/refund", middlewares.RoleMiddleware("admin", "manager"), txCtl.RefundTransaction)
	}

	// Dashboard + reports (back office)
	dashboard := r.Group("/dashboard")
	dashboard.Use(middlewares.AuthMiddleware(jwtSecret), middlewares.RoleMiddleware("admin", "manager"))
	{
		dashboard.GET("/", dashboardCtl.GetDashboard)
	}

	reports := r.Group("/reports")
	reports.Use(middlewares.AuthMiddleware(jwtSecret), middlewares.RoleMiddleware("admin", "manager"))
	{
		reports.GET("/sales", reportCtl.GetSalesReport)
	}

	// Cash sessions
	cash := r.Group("/cash-sessions")
	cash.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		cash.POST("/", cashCtl.OpenCashSession)
		cash.GET("/current", cashCtl.GetCurrentCashSession)
		cash.POST("/close", cashCtl.CloseCashSession)
	}
}
