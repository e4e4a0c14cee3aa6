package domain

// Resource is a business record carrying owner or assignee fields.
//
// CanAccessResource is a visibility gate for the console UI only. It does
// not replace authorization on the backend, which must enforce ownership
// on every request regardless of what the console shows.
type Resource interface {
	ownedBy(role Role, userID int64) bool
}

// Order is a delivery request assigned to a site.
type Order struct {
	ID              int64
	SiteManagerID   int64
	SiteInspectorID int64
}

// Shipment is an OEM shipment linked to an order.
type Shipment struct {
	ID            int64
	OEMManagerID  int64
	SiteManagerID int64
}

// Transport is a waybill assigned to a courier.
type Transport struct {
	ID            int64
	CourierID     int64
	OEMManagerID  int64
	SiteManagerID int64
}

func isSiteRole(role Role) bool {
	return role == RoleSiteManager || role == RoleSiteInspector
}

func (o Order) ownedBy(role Role, userID int64) bool {
	if isSiteRole(role) {
		return o.SiteManagerID == userID || o.SiteInspectorID == userID
	}
	// OEM managers reach orders only through their shipments.
	return false
}

func (s Shipment) ownedBy(role Role, userID int64) bool {
	switch {
	case role == RoleOEMManager:
		return s.OEMManagerID == userID
	case isSiteRole(role):
		return s.SiteManagerID == userID
	}
	return false
}

func (t Transport) ownedBy(role Role, userID int64) bool {
	switch {
	case role == RoleCourier:
		return t.CourierID == userID
	case role == RoleOEMManager:
		return t.OEMManagerID == userID
	case isSiteRole(role):
		return t.SiteManagerID == userID
	}
	return false
}

// CanAccessResource reports whether user may see r. Full-access roles see
// everything; other roles see records where the field matching their role
// holds their user id. A zero user id never matches.
func CanAccessResource(r Resource, user Identity) bool {
	if r == nil {
		return false
	}
	role := NormalizeRole(string(user.Role))
	if role.IsFullAccess() {
		return true
	}
	if user.UserID == 0 {
		return false
	}
	return r.ownedBy(role, user.UserID)
}
