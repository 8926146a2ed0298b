package service

import (
	"html/template"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"github.com/shopspring/decimal"
)

var emailFuncs = template.FuncMap{
	"money": func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(2)
	},
	"lineTotal": func(it model.OrderItem) string {
		return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2)
	},
	"paymentFailed": func(o *model.Order) bool {
		return o != nil && o.PaymentStatus == model.PaymentStatusFailed
	},
}

var emailTemplates = template.Must(template.New("email").Funcs(emailFuncs).Parse(emailLayout + emailBodies))

const emailLayout = `
{{define "header"}}<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #111827; color: white; padding: 20px; text-align: center; }
        .content { padding: 30px; background-color: #f9f9f9; }
        .button { display: inline-block; padding: 12px 30px; background-color: #111827; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { padding: 20px; text-align: center; font-size: 12px; color: #666; }
        .warning { color: #e74c3c; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; }
        td, th { padding: 6px; border-bottom: 1px solid #ddd; text-align: left; }
    </style>
</head>
<body>
<div class="container">
    <div class="header"><h1>{{.Store.StoreName}}</h1></div>
    <div class="content">
{{end}}

{{define "footer"}}
    </div>
    <div class="footer">
        <p>Questions? Contact us at <a href="mailto:{{.Store.ContactEmail}}">{{.Store.ContactEmail}}</a></p>
        <p>&copy; {{.Year}} {{.Store.StoreName}}</p>
    </div>
</div>
</body>
</html>
{{end}}

{{define "items"}}
<table>
    <tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
    {{range .Order.Items}}
    <tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{money .Price}}</td><td>{{lineTotal .}}</td></tr>
    {{end}}
</table>
<p>Subtotal: {{.Order.Currency}} {{money .Order.Subtotal}}</p>
{{if gt .Order.DiscountAmount 0.0}}<p>Coupon {{.Order.CouponCode}}: -{{money .Order.DiscountAmount}}</p>{{end}}
{{if gt .Order.CryptoDiscount 0.0}}<p>Crypto payment discount (15%): -{{money .Order.CryptoDiscount}}</p>{{end}}
<p>Shipping ({{.Order.ShippingMethod}}): {{money .Order.ShippingCost}}</p>
<p><strong>Total: {{.Order.Currency}} {{money .Order.Total}}</strong></p>
{{end}}

{{define "address"}}
<p>{{.Order.ShippingAddr.FullName}}<br>
{{.Order.ShippingAddr.Line1}}{{if .Order.ShippingAddr.Line2}}<br>{{.Order.ShippingAddr.Line2}}{{end}}<br>
{{.Order.ShippingAddr.City}} {{.Order.ShippingAddr.State}} {{.Order.ShippingAddr.PostalCode}}<br>
{{.Order.ShippingAddr.Country}}</p>
{{end}}

{{define "payment_instructions"}}
{{if paymentFailed .Order}}
<p class="warning">We could not create your payment link. Please retry the payment from your order page:</p>
<a class="button" href="{{.FrontendURL}}/orders/{{.Order.ID}}">View order</a>
{{else if eq .Order.PaymentMethod "manual"}}
<h3>Payment instructions</h3>
<p>{{.Store.BankInstructions}}</p>
<p>Reference: <strong>{{.Order.OrderNumber}}</strong></p>
{{else if eq .Order.PaymentMethod "stripe"}}
<h3>Complete your card payment</h3>
{{if .PaymentURL}}<a class="button" href="{{.PaymentURL}}">Pay with card</a>{{end}}
{{else if eq .Order.PaymentMethod "paypal"}}
<h3>Complete your PayPal payment</h3>
{{if .PaymentURL}}<a class="button" href="{{.PaymentURL}}">Pay with PayPal</a>{{end}}
{{else if eq .Order.PaymentMethod "plisio"}}
<h3>Complete your crypto payment</h3>
<p>You saved {{money .Order.CryptoDiscount}} by paying with cryptocurrency.</p>
{{if .PaymentURL}}<a class="button" href="{{.PaymentURL}}">Open crypto invoice</a>{{end}}
{{else if eq .Order.PaymentMethod "binance"}}
<h3>Complete your Binance Pay payment</h3>
<p>You saved {{money .Order.CryptoDiscount}} by paying with cryptocurrency.</p>
{{if .PaymentURL}}<a class="button" href="{{.PaymentURL}}">Pay with Binance Pay</a>{{end}}
{{end}}
{{end}}
`

const emailBodies = `
{{define "order_confirmation"}}{{template "header" .}}
<h2>Thank you for your order, {{.Name}}!</h2>
<p>Order number: <strong>{{.Order.OrderNumber}}</strong></p>
{{template "items" .}}
{{template "payment_instructions" .}}
<h3>Shipping to</h3>
{{template "address" .}}
{{template "footer" .}}{{end}}

{{define "admin_new_order"}}{{template "header" .}}
<h2>New order #{{.Order.OrderNumber}}</h2>
<p>Customer: {{.Order.UserName}} &lt;{{.Order.UserEmail}}&gt; {{.Order.Phone}}</p>
<p>Payment method: {{.Order.PaymentMethod}} ({{.Order.PaymentStatus}})</p>
{{template "items" .}}
{{template "address" .}}
{{if .Order.Notes}}<p>Notes: {{.Order.Notes}}</p>{{end}}
{{template "footer" .}}{{end}}

{{define "payment_confirmation"}}{{template "header" .}}
<h2>Payment received</h2>
<p>Hi {{.Name}}, we have received your payment of {{.Order.Currency}} {{money .Order.Total}} for order <strong>{{.Order.OrderNumber}}</strong>.</p>
<p>We are preparing your order and will let you know when it ships.</p>
{{template "footer" .}}{{end}}

{{define "shipment"}}{{template "header" .}}
<h2>Your order is on its way</h2>
<p>Order <strong>{{.Order.OrderNumber}}</strong> has shipped.</p>
<p>Carrier: {{.Order.TrackingCarrier}}<br>Tracking number: <strong>{{.Order.TrackingNumber}}</strong></p>
{{template "address" .}}
{{template "footer" .}}{{end}}

{{define "invoice"}}{{template "header" .}}
<h2>Invoice #{{.Order.OrderNumber}}</h2>
<p>Date: {{.Order.CreatedAt.Format "2006-01-02"}}</p>
<p>Bill to: {{.Order.UserName}} &lt;{{.Order.UserEmail}}&gt;</p>
{{template "items" .}}
<p>Payment method: {{.Order.PaymentMethod}} / status: {{.Order.PaymentStatus}}</p>
{{template "footer" .}}{{end}}

{{define "password_reset"}}{{template "header" .}}
<h2>Reset your password</h2>
<p>Hi {{.Name}}, click the button below to choose a new password.</p>
<a class="button" href="{{.URL}}">Reset password</a>
<p style="word-break: break-all;">{{.URL}}</p>
<p class="warning">This link expires in 1 hour. If you did not request it, you can ignore this email.</p>
{{template "footer" .}}{{end}}

{{define "welcome"}}{{template "header" .}}
<h2>Welcome, {{.Name}}!</h2>
<p>Your {{.Store.StoreName}} account is ready.</p>
<a class="button" href="{{.FrontendURL}}">Start shopping</a>
{{template "footer" .}}{{end}}

{{define "promotional"}}{{template "header" .}}
{{.Content}}
<p><a href="{{.FrontendURL}}">Visit {{.Store.StoreName}}</a></p>
{{template "footer" .}}{{end}}
`
