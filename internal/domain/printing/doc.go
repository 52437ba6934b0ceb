// Package printing contains the order document model shared by the HTML
// print view and the PDF renderers. Every target reads prices, discounts and
// commissions from the same calculator result.
package printing
