package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var adminNotes string

// orderctl admin holds the admin dashboard commands.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Review and update any order (admin role required)",
}

// orderctl admin list
var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all orders with their owners, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := requireAdminSession()
		if err != nil {
			return err
		}

		orders, err := c.AllOrders(cmd.Context())
		if err != nil {
			return err
		}

		printOrders(orders, true)
		return nil
	},
}

// orderctl admin set-status <order-id> <status>
var adminSetStatusCmd = &cobra.Command{
	Use:   "set-status <order-id> <pending|approved|rejected|delivered>",
	Short: "Set an order's status, optionally attaching notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, err := requireAdminSession()
		if err != nil {
			return err
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		order, err := c.UpdateOrderStatus(cmd.Context(), orderID, args[1], adminNotes)
		if err != nil {
			return err
		}

		fmt.Printf("Order %s is now %s", order.ID, order.Status)
		if order.AdminNotes != "" {
			fmt.Printf(" (notes: %s)", order.AdminNotes)
		}
		fmt.Println()

		// Refetch the full list after the mutation, dashboard-style.
		orders, err := c.AllOrders(cmd.Context())
		if err != nil {
			return err
		}
		printOrders(orders, true)
		return nil
	},
}

func init() {
	adminSetStatusCmd.Flags().StringVar(&adminNotes, "notes", "", "admin notes to attach (empty leaves existing notes unchanged)")

	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminSetStatusCmd)
}
