package navigation

// Page identifies the view a path resolves to.
type Page string

const (
	PageHome                 Page = "HomePage"
	PageLogin                Page = "LoginUser"
	PageUserProfile          Page = "UserProfile"
	PageSearchProperties     Page = "SearchProperties"
	PagePropertyDetails      Page = "PropertyDetails"
	PageManageProperties     Page = "ManageProperties"
	PageManageRooms          Page = "ManageRooms"
	PagePropertyReservations Page = "PropertyReservations"
	PageFavoritesList        Page = "FavoritesList"
	PageAdminRoles           Page = "AdminRoles"
	PageResetPassword        Page = "ResetPassword"
)

const (
	HomePath  = "/"
	LoginPath = "/login"

	// DefaultTitle is used for routes that declare no title of their own.
	DefaultTitle = "Smart Booking"
)

// Meta is the guard metadata of a route.
type Meta struct {
	RequiresAuth       bool
	RequiresSuperadmin bool
	Title              string
}

// merge combines a parent's metadata with a child's. Requirements are
// inherited; the child's title wins when set.
func (m Meta) merge(child Meta) Meta {
	out := Meta{
		RequiresAuth:       m.RequiresAuth || child.RequiresAuth,
		RequiresSuperadmin: m.RequiresSuperadmin || child.RequiresSuperadmin,
		Title:              m.Title,
	}
	if child.Title != "" {
		out.Title = child.Title
	}
	return out
}

// Route maps a chi path pattern to a page. Children are mounted below
// Pattern and inherit its requirements.
type Route struct {
	Pattern  string
	Page     Page
	Meta     Meta
	Children []Route
}

// Routes returns the application's route table.
func Routes() []Route {
	return []Route{
		{Pattern: "/", Page: PageHome},
		{Pattern: "/login", Page: PageLogin, Meta: Meta{Title: "Authentication - Smart Booking"}},
		{Pattern: "/profile", Page: PageUserProfile, Meta: Meta{RequiresAuth: true, Title: "Profile - Smart Booking"}},
		{Pattern: "/search-properties", Page: PageSearchProperties, Meta: Meta{Title: "Find Properties - Smart Booking"}},
		{Pattern: "/property-details/{id}", Page: PagePropertyDetails, Meta: Meta{Title: "Property Info - Smart Booking"}},
		{Pattern: "/manage-properties", Page: PageManageProperties, Meta: Meta{RequiresAuth: true, Title: "Properties - Smart Booking"}},
		{Pattern: "/manage-rooms", Page: PageManageRooms, Meta: Meta{RequiresAuth: true, Title: "Rooms - Smart Booking"}},
		{Pattern: "/reservations", Page: PagePropertyReservations, Meta: Meta{RequiresAuth: true, Title: "Reservations - Smart Booking"}},
		{Pattern: "/favorites", Page: PageFavoritesList, Meta: Meta{RequiresAuth: true, Title: "Favorites - Smart Booking"}},
		{Pattern: "/admin-roles", Page: PageAdminRoles, Meta: Meta{RequiresAuth: true, RequiresSuperadmin: true, Title: "Roles - Smart Booking"}},
		{Pattern: "/reset-password/{token}", Page: PageResetPassword, Meta: Meta{Title: "Reset Password - Smart Booking"}},
	}
}
