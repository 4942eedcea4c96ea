package types

type OrderSide string

type OrderStatus string

type Role string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
