package inventory

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperFR = cases.Upper(language.French)

// Upper pasa a mayúsculas respetando las reglas del francés ("boîte" -> "BOÎTE").
func Upper(s string) string {
	return upperFR.String(s)
}

func pluralS(n int) string {
	if n > 1 {
		return "S"
	}
	return ""
}

func unitOrDefault(unit, def string) string {
	if strings.TrimSpace(unit) == "" {
		return def
	}
	return unit
}

// DonationReceivedMessage mensaje ADMIN al registrar un lote de consumible.
func DonationReceivedMessage(name string, qty int, unit string) string {
	return fmt.Sprintf("Nouveau lot de consommable ajouté: %s (%d %s)", name, qty, unitOrDefault(unit, "unités"))
}

// ConsumableSentMessage mensaje SERVICE al recibir un préstamo de consumible.
func ConsumableSentMessage(name string, qty int, unit string) string {
	return fmt.Sprintf("Nous avons reçu %d %s%s de %s.", qty, Upper(unitOrDefault(unit, "unité")), pluralS(qty), Upper(name))
}

// ConsumableWithdrawnMessage mensaje SERVICE al anular un préstamo de consumible.
func ConsumableWithdrawnMessage(name string, qty int, unit string) string {
	return fmt.Sprintf("%d %s%s de %s ont été retirés dans notre service.", qty, Upper(unitOrDefault(unit, "unité")), pluralS(qty), Upper(name))
}

// ConsumableExhaustedMessage mensaje ADMIN cuando un servicio declara agotado un envío.
func ConsumableExhaustedMessage(name string, qty int, unit, service string, sent, exhausted time.Time) string {
	u := unitOrDefault(unit, "unité")
	if qty > 1 {
		u = strings.TrimRight(u, " ") + "s"
	}
	days := int(exhausted.Sub(sent).Hours() / 24)
	if days < 0 {
		days = 0
	}
	jours := "jour"
	if days > 1 {
		jours = "jours"
	}
	return fmt.Sprintf("%d %s de %s épuisés au service %s, envoyés le %s (%d %s).",
		qty, u, name, serviceOrDefault(service), ShortFrenchDate(sent), days, jours)
}

// EquipmentSentMessage mensaje SERVICE al recibir n lotes de un material.
func EquipmentSentMessage(materialName string, n int) string {
	return fmt.Sprintf("Nous avons reçu %d %s%s.", n, Upper(materialOrDefault(materialName)), pluralS(n))
}

// EquipmentWithdrawnMessage mensaje SERVICE al retirar un lote.
func EquipmentWithdrawnMessage(materialName string) string {
	return fmt.Sprintf("1 %s a été retiré dans notre service.", Upper(materialOrDefault(materialName)))
}

// ConditionChangedMessage mensaje ADMIN al cambiar el estado de un lote.
func ConditionChangedMessage(materialName, serial, oldCond, newCond, service string) string {
	msg := fmt.Sprintf("%q (lot #%s) a été modifié de %q à %q", materialName, serial, oldCond, newCond)
	if service != "" {
		return msg + fmt.Sprintf(" dans le service %q.", service)
	}
	return msg + "."
}

func serviceOrDefault(s string) string {
	if s == "" {
		return "Inconnu"
	}
	return s
}

func materialOrDefault(s string) string {
	if s == "" {
		return "matériel"
	}
	return s
}
