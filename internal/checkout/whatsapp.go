package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sabor-fitness/api/internal/cart"
	"github.com/sabor-fitness/api/internal/enum"
	"github.com/shopspring/decimal"
)

// paymentLabels are the customer-facing labels used in the handoff message.
var paymentLabels = map[string]string{
	enum.PaymentMethodCredit: "Cartão (na entrega)",
	enum.PaymentMethodPix:    "PIX",
	enum.PaymentMethodCash:   "Dinheiro (na entrega)",
}

// whatsAppLink builds the wa.me deep link carrying the URL-encoded order
// summary. The handoff is user-triggered, never automatic.
func whatsAppLink(number string, draft Draft, items []cart.Item, total decimal.Decimal) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(whatsAppMessage(draft, items, total))
}

func whatsAppMessage(draft Draft, items []cart.Item, total decimal.Decimal) string {
	var b strings.Builder

	b.WriteString("*Novo Pedido - Sabor Fitness*\n\n")
	fmt.Fprintf(&b, "*Cliente:* %s\n", draft.DeliveryInfo.Name)
	fmt.Fprintf(&b, "*Telefone:* %s\n\n", draft.DeliveryInfo.Phone)

	if draft.OrderType == enum.OrderTypeDelivery {
		b.WriteString("*Tipo:* Entrega\n")
		fmt.Fprintf(&b, "*Endereço:* %s\n", draft.DeliveryInfo.Address)
		if draft.DeliveryInfo.Complement != "" {
			fmt.Fprintf(&b, "*Complemento:* %s\n", draft.DeliveryInfo.Complement)
		}
	} else {
		b.WriteString("*Tipo:* Retirada\n")
	}

	if draft.DeliveryInfo.Instructions != "" {
		fmt.Fprintf(&b, "*Instruções:* %s\n", draft.DeliveryInfo.Instructions)
	}
	if draft.DeliveryInfo.Observation != "" {
		fmt.Fprintf(&b, "*Observações do Pedido:* %s\n\n", draft.DeliveryInfo.Observation)
	}

	fmt.Fprintf(&b, "\n*Forma de Pagamento:* %s\n\n", paymentLabels[draft.PaymentMethod])

	b.WriteString("*Itens do Pedido:*\n")
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		line := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		fmt.Fprintf(&b, "%dx %s - R$ %s", it.Quantity, it.Name, line.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n\n*Total:* R$ %s", total.StringFixed(2))
	return b.String()
}
