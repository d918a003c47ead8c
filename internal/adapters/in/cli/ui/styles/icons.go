package styles

// Nerd Font icons. They need a Nerd Font compatible terminal font.
const (
	IconSuccess = "\uf00c" // nf-fa-check (U+F00C)
	IconError   = "\uf00d" // nf-fa-times (U+F00D)
	IconWarning = "\uf071" // nf-fa-exclamation_triangle (U+F071)
	IconInfo    = "\uf05a" // nf-fa-info_circle (U+F05A)

	IconBullet = "▸"
)
