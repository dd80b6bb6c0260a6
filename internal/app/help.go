package app

import "strings"

// HelpText describes how the data is kept and what each action does.
func HelpText(cascade bool) string {
	var b strings.Builder
	b.WriteString("Cuentas guarda tus cuentas y rendimientos solo en este equipo.\n\n")
	b.WriteString("Cuentas: banco, tipo, titulares, saldo actual y número (IBAN o identificador del valor).\n")
	b.WriteString("  El saldo lo introduces tú; no se calcula a partir de los rendimientos.\n")
	b.WriteString("  Las cuentas de valores se suman aparte de las de efectivo.\n")
	b.WriteString("Rendimientos: intereses, dividendos y comisiones, siempre con importe positivo\n")
	b.WriteString("  y fecha no posterior a hoy. Las comisiones restan en el neto.\n")
	if cascade {
		b.WriteString("Al borrar una cuenta se borran también sus rendimientos.\n")
	} else {
		b.WriteString("Al borrar una cuenta sus rendimientos se conservan como \"Cuenta eliminada\".\n")
	}
	b.WriteString("Orden: mueve cuentas para fijar el orden en que se muestran.\n")
	b.WriteString("Copia de seguridad: exporta un JSON con cuentas y rendimientos; importar lo sustituye todo.\n")
	return b.String()
}
