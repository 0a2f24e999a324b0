// Package notify builds the unpaid-families reminder the treasurer shares
// over WhatsApp. There is no messaging integration; the output is a message
// body and a wa.me deep link the dashboard opens.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/firdaushadi/borang-server/internal/domain/entity"
)

// BuildUnpaidReport renders the Malay reminder message for the given unpaid
// families, in the order they are passed (the reconciliation report order).
func BuildUnpaidReport(eventTitle string, unpaid []entity.Family) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Laporan Pembayaran %s*\n\n", eventTitle)
	fmt.Fprintf(&b, "Jumlah Keluarga Belum Bayar: *%d keluarga*\n\n", len(unpaid))
	b.WriteString("*Senarai Nama Keluarga:*\n")

	for i, family := range unpaid {
		fmt.Fprintf(&b, "%d. %s (Dewasa: %d, Kanak-kanak: %d)\n",
			i+1, family.Name, family.Adults, family.Children)
	}

	return b.String()
}

// WhatsAppURL builds the wa.me link that opens a chat to the given phone
// number with the message pre-filled. The number is expected in international
// format without the leading plus, e.g. "60102537234".
func WhatsAppURL(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
