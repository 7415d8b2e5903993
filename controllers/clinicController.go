package controllers

import (
	"PearlDental/handlers"
	"PearlDental/middlewares"
	"PearlDental/models"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes registers every clinic-facing route. Availability and
// the emailed confirm/cancel links are public; everything else sits behind
// token auth, with staff and admin groups layered on top.
func SetupClinicRoutes(
	router *gin.Engine,
	appointmentHandler *handlers.AppointmentHandler,
	treatmentHandler *handlers.TreatmentHandler,
	billingHandler *handlers.BillingHandler,
	patientHandler *handlers.PatientHandler,
	closureHandler *handlers.ClosureHandler,
	inventoryHandler *handlers.InventoryHandler,
	procedureHandler *handlers.ProcedureHandler,
	reportHandler *handlers.ReportHandler,
) {
	// Public: the booking page reads availability before login, and the
	// confirm/cancel links arrive by email without a session.
	router.GET("/availability", appointmentHandler.GetAvailabilityRange)
	router.GET("/availability/:date", appointmentHandler.GetAvailability)
	router.GET("/appointments/:appointment_id/confirm", appointmentHandler.ConfirmByLink)
	router.GET("/appointments/:appointment_id/cancel", appointmentHandler.CancelByLink)

	// Authenticated: any logged-in user.
	authGroup := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		authGroup.POST("/appointments", appointmentHandler.Book)
		authGroup.GET("/appointments/mine", appointmentHandler.ListMine)
		authGroup.GET("/appointments/:appointment_id", appointmentHandler.GetByID)
		authGroup.PUT("/appointments/:appointment_id/status", appointmentHandler.UpdateStatus)

		authGroup.GET("/me/record", patientHandler.GetMyRecord)
		authGroup.GET("/me/history", treatmentHandler.GetMyHistory)
		authGroup.GET("/me/billings", billingHandler.ListMine)

		authGroup.GET("/procedures", procedureHandler.GetAllProcedures)
		authGroup.GET("/procedures/:id", procedureHandler.GetProcedureByID)

		authGroup.GET("/closures", closureHandler.ListClosures)
	}

	// Staff: front desk, dentists and admins.
	staffGroup := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireStaff(),
	)
	{
		staffGroup.GET("/schedule/:date", appointmentHandler.ListSchedule)
		staffGroup.PUT("/appointments/:appointment_id/assign", appointmentHandler.AssignDentist)
		staffGroup.PUT("/appointments/:appointment_id/reschedule", appointmentHandler.Reschedule)
		staffGroup.POST("/appointments/:appointment_id/treatment", treatmentHandler.Complete)

		staffGroup.GET("/patients/:patient_uid", patientHandler.GetPatient)
		staffGroup.GET("/patients/:patient_uid/history", treatmentHandler.GetHistory)
		staffGroup.GET("/patients/:patient_uid/billings", billingHandler.ListByPatient)

		staffGroup.GET("/billings", billingHandler.List)
		staffGroup.GET("/billings/:appointment_id", billingHandler.GetRecord)
		staffGroup.POST("/billings/:appointment_id/payments", billingHandler.RecordPayment)
		staffGroup.POST("/billings/:appointment_id/plan", billingHandler.CreateInstallmentPlan)

		staffGroup.POST("/closures", closureHandler.CreateClosure)
		staffGroup.DELETE("/closures/:id", closureHandler.DeleteClosure)

		staffGroup.GET("/inventory", inventoryHandler.GetAllItems)
		staffGroup.GET("/inventory/consumables", inventoryHandler.GetConsumables)
		staffGroup.GET("/inventory/low-stock", inventoryHandler.GetLowStock)
		staffGroup.GET("/inventory/:id", inventoryHandler.GetItemByID)
		staffGroup.POST("/inventory", inventoryHandler.CreateItem)
		staffGroup.PUT("/inventory/:id", inventoryHandler.UpdateItem)
		staffGroup.POST("/inventory/:id/adjust", inventoryHandler.AdjustStock)
		staffGroup.DELETE("/inventory/:id", inventoryHandler.DeactivateItem)

		staffGroup.GET("/reports", reportHandler.GetReport)
	}

	// Admin: catalog management changes prices, so it stays admin-only.
	adminGroup := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RequireRole(models.RoleAdmin),
	)
	{
		adminGroup.POST("/procedures", procedureHandler.CreateProcedure)
		adminGroup.PUT("/procedures/:id", procedureHandler.UpdateProcedure)
		adminGroup.DELETE("/procedures/:id", procedureHandler.DeactivateProcedure)
	}
}
