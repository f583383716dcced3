package orders

import (
	"encoding/csv"
	"fmt"
	"io"
)

// writeOrdersCSV renders orders as semicolon-separated CSV for back-office export.
func writeOrdersCSV(w io.Writer, orders []Order) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	err := writer.Write([]string{
		"order_uid", "session_uid", "created_at", "status",
		"customer_name", "customer_email", "customer_phone",
		"delivery_date", "delivery_time", "items",
		"subtotal", "total", "currency",
	})
	if err != nil {
		return err
	}

	for _, order := range orders {
		err = writer.Write([]string{
			order.UID,
			order.SessionUID,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			string(order.Status),
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			order.DeliveryDate,
			order.DeliveryTime,
			order.ItemSummary(),
			fmt.Sprintf("%.2f", order.Subtotal),
			fmt.Sprintf("%.2f", order.Total),
			order.Currency,
		})
		if err != nil {
			return err
		}
	}

	return nil
}
