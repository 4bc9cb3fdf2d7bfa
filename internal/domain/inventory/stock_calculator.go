// Package inventory contiene las reglas de dominio del ledger de consumibles y de los lotes de material
// (aritmética de stock, numeración y código de lotes, textos de notificación).
package inventory

import "github.com/jhoicas/Materiel-api/internal/domain"

// Withdraw descuenta qty del stock disponible. Devuelve ErrInsufficientStock si qty > onHand.
func Withdraw(onHand, qty int) (int, error) {
	if qty <= 0 {
		return onHand, domain.ErrInvalidInput
	}
	if qty > onHand {
		return onHand, domain.ErrInsufficientStock
	}
	return onHand - qty, nil
}

// Restore devuelve qty al stock (anulación de préstamo o entrada de lote).
func Restore(onHand, qty int) int {
	return onHand + qty
}

// ApplyDelta aplica una diferencia firmada al stock.
// Un resultado negativo se rechaza con ErrInvalidState y deja el stock intacto.
func ApplyDelta(onHand, delta int) (int, error) {
	next := onHand + delta
	if next < 0 {
		return onHand, domain.ErrInvalidState
	}
	return next, nil
}

// DrawDelta aplica la diferencia de un préstamo modificado: delta > 0 es una salida adicional
// (puede fallar por stock insuficiente), delta < 0 una devolución parcial.
func DrawDelta(onHand, delta int) (int, error) {
	if delta > 0 {
		return Withdraw(onHand, delta)
	}
	return Restore(onHand, -delta), nil
}
