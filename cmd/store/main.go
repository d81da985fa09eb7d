// Package main runs an interactive shell over the storefront core:
// catalog browsing, the cart, checkout, bookings and the admin
// back-office, against a configured backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dammytech/dtxstore/internal/client/admin"
	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/cart"
	"github.com/dammytech/dtxstore/internal/client/guard"
	"github.com/dammytech/dtxstore/internal/client/localstate"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/client/session"
	"github.com/dammytech/dtxstore/internal/client/shop"
	"github.com/dammytech/dtxstore/internal/config"
	"github.com/dammytech/dtxstore/internal/logger"
	"github.com/dammytech/dtxstore/internal/models"
)

var (
	version   string
	buildDate string
)

// app bundles the wired client core for the shell commands.
type app struct {
	cart     *cart.Store
	sessions *session.Manager
	catalog  *shop.Catalog
	checkout *shop.Checkout
	bookings *shop.Bookings
	contact  *shop.Contact
	admin    *admin.Service
	scanner  *bufio.Scanner
}

// prompt reads one line of input after printing label. The second
// return is false once input is exhausted.
func (a *app) promptLine(label string) (string, bool) {
	fmt.Print(label)
	if !a.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.scanner.Text()), true
}

func (a *app) prompt(label string) string {
	line, _ := a.promptLine(label)
	return line
}

func (a *app) printProducts(products []models.Product) {
	for _, p := range products {
		fmt.Printf("  %s  %-30s %10s  [%s]\n", p.ID, p.Name, models.FormatPrice(p.Price), p.Category)
	}
	if len(products) == 0 {
		fmt.Println("  (no products)")
	}
}

func (a *app) printCart() {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, it := range items {
		fmt.Printf("  %s x%d  %s\n", it.Product.Name, it.Quantity,
			models.FormatPrice(it.Product.Price*int64(it.Quantity)))
	}
	fmt.Printf("Subtotal: %s\n", models.FormatPrice(a.cart.Subtotal()))
}

func (a *app) cmdCheckout(ctx context.Context, args []string) {
	if d := guard.RequireUser(a.sessions); !d.Allow {
		fmt.Println("Please sign in first (redirect:", d.RedirectTo+")")
		return
	}
	method := models.PayWhatsApp
	if len(args) > 0 && args[0] == "bank" {
		method = models.PayBankTransfer
	}
	details := models.UserDetails{
		Name:    a.prompt("Name: "),
		Phone:   a.prompt("Phone: "),
		Address: a.prompt("Address: "),
	}
	placed, err := a.checkout.PlaceOrder(ctx, details, method)
	if err != nil {
		fmt.Println("Checkout failed:", err)
		return
	}
	fmt.Printf("Order %s placed, total %s\n", placed.OrderID, models.FormatPrice(placed.Total))
	if placed.WhatsAppLink != "" {
		fmt.Println("Continue on WhatsApp:", placed.WhatsAppLink)
	}
}

func (a *app) cmdBook(ctx context.Context) {
	if d := guard.RequireUser(a.sessions); !d.Allow {
		fmt.Println("Please sign in first (redirect:", d.RedirectTo+")")
		return
	}
	device := models.DevicePhone
	if strings.EqualFold(a.prompt("Device (phone/laptop): "), "laptop") {
		device = models.DeviceLaptop
	}
	booking := models.Booking{
		Name:               a.prompt("Name: "),
		Phone:              a.prompt("Phone: "),
		DeviceType:         device,
		ProblemDescription: a.prompt("Problem: "),
	}
	link, err := a.bookings.Create(ctx, booking)
	if err != nil {
		fmt.Println("Booking failed:", err)
		return
	}
	fmt.Println("Booked. Continue on WhatsApp:", link)
}

func (a *app) cmdAdmin(ctx context.Context, args []string) {
	if d := guard.RequireAdmin(a.sessions); !d.Allow {
		fmt.Println("Admin access required (redirect:", d.RedirectTo+")")
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: admin dashboard | orders | status <id> <status> | respond <booking-id> <text> | bank")
		return
	}
	switch args[0] {
	case "dashboard":
		d, err := a.admin.LoadDashboard(ctx)
		if err != nil {
			fmt.Println("Failed:", err)
			return
		}
		fmt.Printf("Pending orders: %d\n", d.PendingOrders)
		for _, o := range d.RecentOrders {
			fmt.Printf("  order %s  %s  %s\n", o.OrderID, o.Status, models.FormatPrice(o.Total))
		}
		for _, b := range d.RecentBookings {
			fmt.Printf("  booking %s  %s (%s)\n", b.ID, b.Name, b.DeviceType)
		}
		for _, m := range d.RecentMessages {
			fmt.Printf("  message %s  %s: %s\n", m.ID, m.Name, m.Subject)
		}
	case "orders":
		orders, err := a.admin.Orders(ctx)
		if err != nil {
			fmt.Println("Failed:", err)
			return
		}
		for _, o := range orders {
			fmt.Printf("  %s  %s  %s  %s\n", o.ID, o.OrderID, o.Status, models.FormatPrice(o.Total))
		}
	case "status":
		if len(args) < 3 {
			fmt.Println("Usage: admin status <id> <status>")
			return
		}
		if err := a.admin.UpdateOrderStatus(ctx, args[1], models.OrderStatus(args[2])); err != nil {
			fmt.Println("Failed:", err)
		}
	case "respond":
		if len(args) < 3 {
			fmt.Println("Usage: admin respond <booking-id> <text>")
			return
		}
		if err := a.admin.RespondToBooking(ctx, args[1], strings.Join(args[2:], " ")); err != nil {
			fmt.Println("Failed:", err)
		}
	case "bank":
		info := models.BankInfo{
			BankName:          a.prompt("Bank name: "),
			AccountNumber:     a.prompt("Account number: "),
			AccountHolderName: a.prompt("Account holder: "),
		}
		if err := a.admin.UpdateBankInfo(ctx, info); err != nil {
			fmt.Println("Failed:", err)
		}
	default:
		fmt.Println("Unknown admin command:", args[0])
	}
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	ctx := context.Background()
	for {
		line, ok := a.promptLine("dtxstore> ")
		if !ok {
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Commands: products [category], latest, add <product-id> [qty], cart,")
			fmt.Println("  qty <product-id> <n>, remove <product-id>, clear, bank, checkout [bank],")
			fmt.Println("  track <order-id>, orders, book, contact, signup, signin [remember],")
			fmt.Println("  signout, admin-login, admin-logout, admin <subcommand>, exit")
		case "products":
			category := ""
			if len(args) > 1 {
				category = args[1]
			}
			products, err := a.catalog.List(ctx, category)
			if err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			a.printProducts(products)
		case "latest":
			products, err := a.catalog.Latest(ctx, 4)
			if err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			a.printProducts(products)
		case "add":
			if len(args) < 2 {
				fmt.Println("Usage: add <product-id> [qty]")
				continue
			}
			qty := 1
			if len(args) > 2 {
				qty, _ = strconv.Atoi(args[2])
			}
			p, err := a.catalog.Get(ctx, args[1])
			if err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			if err := a.cart.Add(*p, qty); err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			fmt.Printf("Added %s\n", p.Name)
		case "cart":
			a.printCart()
		case "qty":
			if len(args) < 3 {
				fmt.Println("Usage: qty <product-id> <n>")
				continue
			}
			n, _ := strconv.Atoi(args[2])
			if err := a.cart.UpdateQuantity(args[1], n); err != nil {
				fmt.Println("Failed:", err)
			}
		case "remove":
			if len(args) < 2 {
				fmt.Println("Usage: remove <product-id>")
				continue
			}
			if err := a.cart.Remove(args[1]); err != nil {
				fmt.Println("Failed:", err)
			}
		case "clear":
			if err := a.cart.Clear(); err != nil {
				fmt.Println("Failed:", err)
			}
		case "bank":
			info, err := a.checkout.BankDetails(ctx)
			if err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			fmt.Printf("%s  %s  (%s)\n", info.BankName, info.AccountNumber, info.AccountHolderName)
		case "checkout":
			a.cmdCheckout(ctx, args[1:])
		case "track":
			if len(args) < 2 {
				fmt.Println("Usage: track <order-id>")
				continue
			}
			o, err := a.checkout.Track(ctx, args[1])
			if err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			fmt.Printf("Order %s: %s, total %s\n", o.OrderID, o.Status, models.FormatPrice(o.Total))
		case "orders":
			if d := guard.RequireUser(a.sessions); !d.Allow {
				fmt.Println("Please sign in first (redirect:", d.RedirectTo+")")
				continue
			}
			orders, err := a.checkout.OrdersForUser(ctx)
			if err != nil {
				fmt.Println("Failed:", err)
				continue
			}
			for _, o := range orders {
				fmt.Printf("  %s  %s  %s\n", o.OrderID, o.Status, models.FormatPrice(o.Total))
			}
		case "book":
			a.cmdBook(ctx)
		case "contact":
			msg := models.ContactMessage{
				Name:    a.prompt("Name: "),
				Email:   a.prompt("Email: "),
				Subject: a.prompt("Subject: "),
				Message: a.prompt("Message: "),
			}
			if err := a.contact.Send(ctx, msg); err != nil {
				fmt.Println("Failed:", err)
			}
		case "signup":
			email := a.prompt("Email: ")
			password := a.prompt("Password: ")
			name := a.prompt("Full name: ")
			if err := a.sessions.SignUp(ctx, email, password, name); err != nil {
				fmt.Println("Failed:", err)
			}
		case "signin":
			email := a.prompt("Email: ")
			password := a.prompt("Password: ")
			remember := len(args) > 1 && args[1] == "remember"
			if err := a.sessions.SignIn(ctx, email, password, remember); err != nil {
				fmt.Println("Failed:", err)
			}
		case "signout":
			if err := a.sessions.SignOut(ctx); err != nil {
				fmt.Println("Failed:", err)
			}
		case "admin-login":
			if err := a.sessions.AdminSignIn(a.prompt("Admin password: ")); err != nil {
				fmt.Println("Failed:", err)
			}
		case "admin-logout":
			if err := a.sessions.AdminSignOut(); err != nil {
				fmt.Println("Failed:", err)
			}
		case "admin":
			a.cmdAdmin(ctx, args[1:])
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	_ = godotenv.Load()
	options := config.Parse()

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}

	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("dtxstore\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	state := localstate.New(options.StateFile)
	if err := state.Load(); err != nil {
		log.Log.Fatal("failed to load local state", zap.Error(err))
	}

	client, err := backend.New(options.BackendURL, options.AnonKey)
	if err != nil {
		log.Log.Fatal("bad backend URL", zap.Error(err))
	}

	notifier := notify.NewZap(log.Log)
	cartStore := cart.NewStore(state)
	sessions := session.NewManager(session.Config{
		Auth:          client,
		Tokens:        client,
		State:         state,
		Notifier:      notifier,
		Navigate:      func(route string) { fmt.Println("redirect:", route) },
		AdminPassword: options.AdminPassword,
	})
	client.OnUnauthorized(sessions.HandleUnauthorized)

	a := &app{
		cart:     cartStore,
		sessions: sessions,
		catalog:  shop.NewCatalog(client, notifier),
		checkout: shop.NewCheckout(client, cartStore, sessions, notifier, options.WhatsAppNumber),
		bookings: shop.NewBookings(client, sessions, notifier, options.WhatsAppNumber),
		contact:  shop.NewContact(client, notifier),
		admin:    admin.New(client, notifier),
		scanner:  bufio.NewScanner(os.Stdin),
	}
	a.repl()
}
