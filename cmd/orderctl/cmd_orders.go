package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"orderdesk/internal/handler"
	"orderdesk/internal/model"
)

var (
	orderItems   []string
	orderStreet  string
	orderCity    string
	orderState   string
	orderZipCode string
	orderCountry string
)

// orderctl orders holds the customer dashboard commands.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Submit and track your own orders",
}

// orderctl orders create
var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new order",
	Long:  "Submit a new order. Each --item is name:quantity:price; the total is computed locally before submission.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := requireSession()
		if err != nil {
			return err
		}

		items, total, err := parseItems(orderItems)
		if err != nil {
			return err
		}

		req := handler.CreateOrderRequest{
			Items: items,
			DeliveryAddress: handler.DeliveryAddressRequest{
				Street:  orderStreet,
				City:    orderCity,
				State:   orderState,
				ZipCode: orderZipCode,
				Country: orderCountry,
			},
			TotalAmount: total,
		}

		order, err := c.CreateOrder(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Printf("Order %s submitted (status %s, total %s)\n", order.ID, order.Status, order.TotalAmount)
		return nil
	},
}

// orderctl orders list
var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := requireSession()
		if err != nil {
			return err
		}

		orders, err := c.MyOrders(cmd.Context())
		if err != nil {
			return err
		}

		printOrders(orders, false)
		return nil
	},
}

func init() {
	ordersCreateCmd.Flags().StringArrayVar(&orderItems, "item", nil, "line item as name:quantity:price (repeatable)")
	ordersCreateCmd.Flags().StringVar(&orderStreet, "street", "", "delivery street")
	ordersCreateCmd.Flags().StringVar(&orderCity, "city", "", "delivery city")
	ordersCreateCmd.Flags().StringVar(&orderState, "state", "", "delivery state")
	ordersCreateCmd.Flags().StringVar(&orderZipCode, "zip", "", "delivery zip code")
	ordersCreateCmd.Flags().StringVar(&orderCountry, "country", "", "delivery country")
	_ = ordersCreateCmd.MarkFlagRequired("item")
	_ = ordersCreateCmd.MarkFlagRequired("street")
	_ = ordersCreateCmd.MarkFlagRequired("city")
	_ = ordersCreateCmd.MarkFlagRequired("state")
	_ = ordersCreateCmd.MarkFlagRequired("zip")
	_ = ordersCreateCmd.MarkFlagRequired("country")

	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersListCmd)
}

// parseItems parses name:quantity:price specs and sums the total locally.
// The server stores the submitted total as-is.
func parseItems(specs []string) ([]handler.OrderItemRequest, decimal.Decimal, error) {
	items := make([]handler.OrderItemRequest, 0, len(specs))
	total := decimal.Zero

	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, decimal.Zero, fmt.Errorf("invalid item %q: want name:quantity:price", spec)
		}

		quantity, err := strconv.Atoi(parts[1])
		if err != nil || quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("invalid quantity in item %q", spec)
		}

		price, err := decimal.NewFromString(parts[2])
		if err != nil || price.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("invalid price in item %q", spec)
		}

		items = append(items, handler.OrderItemRequest{
			Name:     parts[0],
			Quantity: quantity,
			Price:    price,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
	}

	return items, total, nil
}

// printOrders renders orders as a table, with the owner column for admins.
func printOrders(orders []model.Order, withOwner bool) {
	if len(orders) == 0 {
		fmt.Println("No orders.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if withOwner {
		fmt.Fprintln(w, "ID\tOWNER\tSTATUS\tTOTAL\tCREATED\tNOTES")
	} else {
		fmt.Fprintln(w, "ID\tSTATUS\tTOTAL\tCREATED\tNOTES")
	}

	for _, o := range orders {
		created := o.CreatedAt.Format("2006-01-02 15:04")
		if withOwner {
			fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\t%s\t%s\n",
				o.ID, o.User.Name, o.User.Email, o.Status, o.TotalAmount, created, o.AdminNotes)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				o.ID, o.Status, o.TotalAmount, created, o.AdminNotes)
		}
	}
	_ = w.Flush()
}
