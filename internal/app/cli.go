package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/cart"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/checkout"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/order"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/pkg/rupiah"
)

const usage = `Usage: storefront <command> [arguments]

Catalog:
  products                       list the catalog
  product <id>                   show one product
  product-add [flags]            add a product (owner)
  product-update <id> [flags]    replace a product (owner)
  product-delete <id>            delete a product (owner)

Cart:
  cart show                      show the cart with live prices
  cart add <id> [qty]            add a product to the cart
  cart set <id> <qty>            change a line quantity (0 removes)
  cart rm <id>                   remove a line
  checkout -name N -address A    place the order and print the WhatsApp link

Owner:
  login -username U -password P  start an owner session
  logout                         end the owner session
  orders                         list orders (owner)
  order <id>                     show one order (owner)
  order-status <id> <status>     set an order status (owner)
`

func dispatch(ctx context.Context, s *Services, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "products":
		return cmdProducts(ctx, s)
	case "product":
		return cmdProduct(ctx, s, rest)
	case "product-add":
		return cmdProductAdd(ctx, s, rest)
	case "product-update":
		return cmdProductUpdate(ctx, s, rest)
	case "product-delete":
		return cmdProductDelete(ctx, s, rest)
	case "cart":
		return cmdCart(ctx, s, rest)
	case "checkout":
		return cmdCheckout(ctx, s, rest)
	case "login":
		return cmdLogin(ctx, s, rest)
	case "logout":
		return s.Session.Logout()
	case "orders":
		return cmdOrders(ctx, s)
	case "order":
		return cmdOrder(ctx, s, rest)
	case "order-status":
		return cmdOrderStatus(ctx, s, rest)
	default:
		fmt.Print(usage)
		return errors.Errorf("unknown command %q", cmd)
	}
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("missing product/order id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid id %q", args[0])
	}
	return id, nil
}

func cmdProducts(ctx context.Context, s *Services) error {
	products, err := s.Catalog.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%4d  %-35s %-18s %12s  stock %d\n",
			p.ID, p.Name, p.Category, rupiah.Format(p.Price), p.Stock)
	}
	return nil
}

func cmdProduct(ctx context.Context, s *Services, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, err := s.Catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	printProduct(p)
	return nil
}

func printProduct(p *product.Product) {
	fmt.Printf("#%d %s\n", p.ID, p.Name)
	fmt.Printf("  Kategori:  %s\n", p.Category)
	fmt.Printf("  Harga:     %s\n", rupiah.Format(p.Price))
	fmt.Printf("  Stok:      %d\n", p.Stock)
	if p.Description != "" {
		fmt.Printf("  Deskripsi: %s\n", p.Description)
	}
}

func productFlags(fs *flag.FlagSet) *struct {
	name, category, price, image, desc string
	stock                              int
} {
	v := &struct {
		name, category, price, image, desc string
		stock                              int
	}{}
	fs.StringVar(&v.name, "name", "", "product name")
	fs.StringVar(&v.category, "category", "", "product category")
	fs.StringVar(&v.price, "price", "0", "unit price in Rupiah")
	fs.IntVar(&v.stock, "stock", 0, "stock on hand")
	fs.StringVar(&v.image, "image", "", "image URL")
	fs.StringVar(&v.desc, "desc", "", "description")
	return v
}

func productInput(v *struct {
	name, category, price, image, desc string
	stock                              int
}) (product.Input, error) {
	price, err := decimal.NewFromString(v.price)
	if err != nil {
		return product.Input{}, errors.Wrapf(err, "invalid price %q", v.price)
	}
	return product.Input{
		Name:        v.name,
		Category:    v.category,
		Price:       price,
		Stock:       v.stock,
		Description: v.desc,
		Image:       v.image,
	}, nil
}

func cmdProductAdd(ctx context.Context, s *Services, args []string) error {
	fs := flag.NewFlagSet("product-add", flag.ContinueOnError)
	v := productFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := productInput(v)
	if err != nil {
		return err
	}
	p, err := s.Catalog.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("Produk #%d dibuat\n", p.ID)
	return nil
}

func cmdProductUpdate(ctx context.Context, s *Services, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("product-update", flag.ContinueOnError)
	v := productFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	in, err := productInput(v)
	if err != nil {
		return err
	}
	p, err := s.Catalog.Update(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Printf("Produk #%d diperbarui\n", p.ID)
	return nil
}

func cmdProductDelete(ctx context.Context, s *Services, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := s.Catalog.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Produk #%d dihapus\n", id)
	return nil
}

func cmdCart(ctx context.Context, s *Services, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "show":
		return cmdCartShow(ctx, s)
	case "add":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		qty := 1
		if len(rest) > 1 {
			if qty, err = strconv.Atoi(rest[1]); err != nil {
				return errors.Wrapf(err, "invalid quantity %q", rest[1])
			}
		}
		line, err := s.Cart.Add(ctx, id, qty)
		if err != nil {
			return cartError(err)
		}
		fmt.Printf("%s ditambahkan ke keranjang (jumlah %d)\n", line.Name, line.Quantity)
		return nil
	case "set":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		if len(rest) < 2 {
			return errors.New("missing quantity")
		}
		qty, err := strconv.Atoi(rest[1])
		if err != nil {
			return errors.Wrapf(err, "invalid quantity %q", rest[1])
		}
		line, outcome, err := s.Cart.UpdateQuantity(ctx, id, qty)
		if err != nil {
			return cartError(err)
		}
		switch outcome {
		case cart.OutcomeRemoved:
			fmt.Printf("%s dihapus dari keranjang\n", line.Name)
		default:
			fmt.Printf("%s: jumlah menjadi %d\n", line.Name, line.Quantity)
		}
		return nil
	case "rm":
		id, err := parseID(rest)
		if err != nil {
			return err
		}
		line, removed, err := s.Cart.Remove(id)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println("Produk tidak ada di keranjang")
			return nil
		}
		fmt.Printf("%s dihapus dari keranjang\n", line.Name)
		return nil
	default:
		return errors.Errorf("unknown cart subcommand %q", sub)
	}
}

func cmdCartShow(ctx context.Context, s *Services) error {
	if s.Cart.IsEmpty() {
		fmt.Println("Keranjang belanja kosong")
		return nil
	}
	for _, line := range s.Cart.Lines(ctx) {
		stale := ""
		if line.Stale {
			stale = " (harga tersimpan)"
		}
		fmt.Printf("%4d  %-35s x%-3d %12s%s\n",
			line.ProductID, line.Name, line.Quantity, rupiah.Format(line.TotalPrice), stale)
	}
	fmt.Printf("Subtotal: %s\n", rupiah.Format(s.Cart.Subtotal(ctx)))
	return nil
}

func cmdCheckout(ctx context.Context, s *Services, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	name := fs.String("name", "", "customer full name")
	address := fs.String("address", "", "full shipping address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	receipt, err := s.Checkout.Submit(ctx, *name, *address)
	if err != nil {
		return cartError(err)
	}

	fmt.Printf("Pesanan #%d dibuat, total %s\n", receipt.Order.ID, rupiah.Format(receipt.Subtotal))
	for _, issue := range receipt.StockIssues {
		fmt.Printf("Peringatan: stok produk %d gagal disinkronkan: %s\n", issue.ProductID, issue.Err)
	}
	fmt.Printf("Kirim pesanan via WhatsApp:\n%s\n", receipt.Link)
	return nil
}

// cartError translates the typed cart and checkout failures into the short
// user-facing notifications the storefront shows.
func cartError(err error) error {
	var (
		ise *cart.InsufficientStockError
		nie *cart.NotInCartError
		ve  *checkout.ValidationError
		oce *checkout.OrderCreationError
	)
	switch {
	case errors.As(err, &ise):
		return errors.Errorf("stok tidak mencukupi, sisa stok: %d", ise.Available)
	case errors.As(err, &nie):
		return errors.New("produk tidak ada di keranjang")
	case errors.As(err, &ve):
		return errors.Errorf("data belum lengkap: %v", ve.Missing)
	case errors.As(err, &oce):
		return errors.Wrap(oce.Err, "pesanan gagal dibuat, keranjang tidak berubah")
	case errors.Is(err, product.ErrNotFound):
		return errors.New("produk tidak ditemukan")
	case errors.Is(err, product.ErrUnavailable):
		return errors.New("katalog tidak dapat dihubungi, coba lagi nanti")
	default:
		return err
	}
}

func cmdLogin(ctx context.Context, s *Services, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "owner username")
	password := fs.String("password", "", "owner password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := s.Session.Login(ctx, s.Client, *username, *password); err != nil {
		return err
	}
	fmt.Println("Login berhasil")
	return nil
}

func cmdOrders(ctx context.Context, s *Services) error {
	orders, err := s.Client.Orders().List(ctx)
	if err != nil {
		return err
	}
	for _, o := range orders {
		fmt.Printf("%4d  %-25s %-10s %12s  %s\n",
			o.ID, o.CustomerName, o.Status, rupiah.Format(o.TotalAmount),
			o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func cmdOrder(ctx context.Context, s *Services, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	o, err := s.Client.Orders().GetByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Pesanan #%d (%s)\n", o.ID, o.Status)
	fmt.Printf("  Nama:   %s\n", o.CustomerName)
	fmt.Printf("  Alamat: %s\n", o.CustomerAddress)
	for _, item := range o.Items {
		fmt.Printf("  - produk %d x%d @ %s\n", item.ProductID, item.Quantity, rupiah.Format(item.Price))
	}
	fmt.Printf("  Total:  %s\n", rupiah.Format(o.TotalAmount))
	return nil
}

func cmdOrderStatus(ctx context.Context, s *Services, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("missing status (pending, completed, cancelled)")
	}
	status, err := order.ParseStatus(args[1])
	if err != nil {
		return err
	}
	o, err := s.Client.Orders().UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	fmt.Printf("Pesanan #%d sekarang %s\n", o.ID, o.Status)
	return nil
}
