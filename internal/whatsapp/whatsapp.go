// Package whatsapp formats checkout summaries and builds wa.me deep links,
// the final handoff of a completed checkout.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/cart"
	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/pkg/rupiah"
)

// DefaultPhone is the store's WhatsApp number in international format,
// without a leading + or 0.
const DefaultPhone = "6285246982655"

// Messenger builds order summaries addressed to the store's WhatsApp
// number.
type Messenger struct {
	phone string
}

// New returns a Messenger for the given phone number, falling back to
// DefaultPhone when empty.
func New(phone string) *Messenger {
	if phone == "" {
		phone = DefaultPhone
	}
	return &Messenger{phone: phone}
}

// Phone returns the configured destination number.
func (m *Messenger) Phone() string {
	return m.phone
}

// Message renders the human-readable order summary sent to the store.
func (m *Messenger) Message(lines []cart.ResolvedLine, subtotal decimal.Decimal, name, address string) string {
	var b strings.Builder

	b.WriteString("Halo, saya ingin memesan produk berikut:\n\n")

	b.WriteString("*Data Pembeli*\n")
	fmt.Fprintf(&b, "Nama: %s\n", name)
	fmt.Fprintf(&b, "Alamat: %s\n\n", address)

	b.WriteString("*Detail Pesanan*\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line.Name)
		fmt.Fprintf(&b, "   Jumlah: %d\n", line.Quantity)
		fmt.Fprintf(&b, "   Harga: %s\n", rupiah.Format(line.ResolvedPrice))
		fmt.Fprintf(&b, "   Subtotal: %s\n\n", rupiah.Format(line.TotalPrice))
	}

	fmt.Fprintf(&b, "Total: %s\n\n", rupiah.Format(subtotal))
	b.WriteString("Silakan konfirmasi ketersediaan dan cara pembayaran. Terima kasih!")

	return b.String()
}

// CheckoutLink returns the wa.me deep link carrying the order summary as a
// prefilled message.
func (m *Messenger) CheckoutLink(lines []cart.ResolvedLine, subtotal decimal.Decimal, name, address string) string {
	msg := m.Message(lines, subtotal, name, address)
	encoded := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + m.phone + "?text=" + encoded
}
