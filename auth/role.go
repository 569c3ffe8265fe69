package auth

import "strings"

// Role is the storefront's closed set of user kinds. The zero value is Guest.
type Role int

const (
	RoleGuest Role = iota
	RoleAdmin
	RoleSupplier
	RoleConsumer
)

// Backend role identifiers. ROLE_USUARIO is canonical for consumers;
// ROLE_USER is still issued by older backend builds.
const (
	RoleIDAdmin         = "ROLE_ADMIN"
	RoleIDSupplier      = "ROLE_FORNECEDOR"
	RoleIDConsumer      = "ROLE_USUARIO"
	RoleIDConsumerAlias = "ROLE_USER"
)

// ParseRole maps a backend role identifier to a Role. Unknown identifiers
// are treated as Guest.
func ParseRole(id string) Role {
	switch strings.ToUpper(strings.TrimSpace(id)) {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDSupplier:
		return RoleSupplier
	case RoleIDConsumer, RoleIDConsumerAlias:
		return RoleConsumer
	default:
		return RoleGuest
	}
}

// ID returns the canonical backend identifier, empty for Guest.
func (r Role) ID() string {
	switch r {
	case RoleAdmin:
		return RoleIDAdmin
	case RoleSupplier:
		return RoleIDSupplier
	case RoleConsumer:
		return RoleIDConsumer
	}
	return ""
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSupplier:
		return "supplier"
	case RoleConsumer:
		return "consumer"
	case RoleGuest:
		return "guest"
	}
	return "unknown"
}

// DisplayName is the label shown next to the user in the header.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleSupplier:
		return "Fornecedor"
	case RoleConsumer:
		return "Cliente"
	case RoleGuest:
		return "Visitante"
	}
	return ""
}

// Paths used for redirects.
const (
	PathLogin        = "/login"
	PathUnauthorized = "/nao-autorizado"
	PathAdmin        = "/admin"
	PathSupplier     = "/fornecedor"
	PathConsumer     = "/usuario"
	PathShop         = "/usuario/produtos"
	PathOrders       = "/usuario/pedidos"
	PathCart         = "/usuario/carrinho"
)

// HomePath is where a user lands after login.
func HomePath(r Role) string {
	switch r {
	case RoleAdmin:
		return PathAdmin
	case RoleSupplier:
		return PathSupplier
	case RoleConsumer:
		return PathShop
	case RoleGuest:
		return PathLogin
	}
	return PathLogin
}

// NavLink is one entry of the header menu.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavLinks returns the header menu for r.
func NavLinks(r Role) []NavLink {
	switch r {
	case RoleAdmin:
		return []NavLink{
			{Label: "Painel", Path: PathAdmin},
			{Label: "Usuários", Path: "/admin/usuarios"},
			{Label: "Cupons", Path: "/admin/cupons"},
		}
	case RoleSupplier:
		return []NavLink{
			{Label: "Painel", Path: PathSupplier},
			{Label: "Meus Produtos", Path: "/fornecedor/produtos"},
			{Label: "Novo Produto", Path: "/fornecedor/produtos/novo"},
			{Label: "Vendas", Path: "/fornecedor/pedidos"},
		}
	case RoleConsumer:
		return []NavLink{
			{Label: "Loja", Path: PathShop},
			{Label: "Meus Pedidos", Path: PathOrders},
			{Label: "Carrinho", Path: PathCart},
		}
	case RoleGuest:
		return []NavLink{
			{Label: "Explorar Loja", Path: "/produtos"},
		}
	}
	return nil
}

// RequiredRole returns the role a path prefix is reserved for. ok is false
// for public paths.
func RequiredRole(path string) (role Role, ok bool) {
	switch {
	case hasSegmentPrefix(path, PathAdmin):
		return RoleAdmin, true
	case hasSegmentPrefix(path, PathSupplier):
		return RoleSupplier, true
	case hasSegmentPrefix(path, PathConsumer):
		return RoleConsumer, true
	}
	return RoleGuest, false
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
