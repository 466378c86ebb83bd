package models

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&Landlord{},
		&Tenant{},
		&Property{},
		&Unit{},
		&TenancyAgreement{},
		&MaintenanceTicket{},
		&TicketResponse{},
		&Document{},
		&SystemLog{},
	}
}
