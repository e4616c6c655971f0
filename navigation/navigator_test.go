package navigation_test

import (
	"testing"

	"github.com/jrsteele09/go-booking-client/booking"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/jrsteele09/go-booking-client/navigation"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	authenticated bool
	role          booking.RoleType
}

func (a *fakeAuth) IsAuthenticated() bool      { return a.authenticated }
func (a *fakeAuth) UserRole() booking.RoleType { return a.role }

func setupTestFixture(t *testing.T) (*navigation.Navigator, *fakeAuth) {
	t.Helper()
	auth := &fakeAuth{}
	nav, err := navigation.New(auth, navigation.Routes())
	require.NoError(t, err)
	return nav, auth
}

func TestNavigate_Guard(t *testing.T) {
	nav, auth := setupTestFixture(t)

	t.Run("auth route while anonymous redirects to login", func(t *testing.T) {
		auth.authenticated, auth.role = false, ""
		for _, path := range []string{"/profile", "/manage-properties", "/manage-rooms", "/reservations", "/favorites", "/admin-roles"} {
			d, err := nav.Navigate(path)
			require.NoError(t, err)
			require.Equal(t, navigation.LoginPath, d.Redirect, path)
			require.False(t, d.Allowed())
		}
	})

	t.Run("superadmin route as owner redirects home", func(t *testing.T) {
		auth.authenticated, auth.role = true, booking.RoleOwner
		d, err := nav.Navigate("/admin-roles")
		require.NoError(t, err)
		require.Equal(t, navigation.HomePath, d.Redirect)
	})

	t.Run("superadmin route as superadmin is allowed", func(t *testing.T) {
		auth.authenticated, auth.role = true, booking.RoleSuperAdmin
		d, err := nav.Navigate("/admin-roles")
		require.NoError(t, err)
		require.True(t, d.Allowed())
		require.Equal(t, navigation.PageAdminRoles, d.Page)
		require.Equal(t, "Roles - Smart Booking", d.Title)
	})

	t.Run("authenticated user reaches auth routes", func(t *testing.T) {
		auth.authenticated, auth.role = true, booking.RoleUser
		d, err := nav.Navigate("/favorites")
		require.NoError(t, err)
		require.True(t, d.Allowed())
		require.Equal(t, navigation.PageFavoritesList, d.Page)
	})

	t.Run("public routes never redirect", func(t *testing.T) {
		auth.authenticated, auth.role = false, ""
		d, err := nav.Navigate("/search-properties")
		require.NoError(t, err)
		require.True(t, d.Allowed())
		require.Equal(t, "Find Properties - Smart Booking", d.Title)
	})
}

func TestNavigate_ParamsQueryAndTitle(t *testing.T) {
	nav, _ := setupTestFixture(t)

	d, err := nav.Navigate("/property-details/42?check_in=01-07-2025")
	require.NoError(t, err)
	require.Equal(t, navigation.PagePropertyDetails, d.Page)
	require.Equal(t, map[string]string{"id": "42"}, d.Params)
	require.Equal(t, "01-07-2025", d.Query.Get("check_in"))
	require.Equal(t, "Property Info - Smart Booking", d.Title)

	d, err = nav.Navigate("/reset-password/abc.def")
	require.NoError(t, err)
	require.Equal(t, "abc.def", d.Params["token"])

	d, err = nav.Navigate("/")
	require.NoError(t, err)
	require.Equal(t, navigation.PageHome, d.Page)
	require.Equal(t, navigation.DefaultTitle, d.Title)
	require.Nil(t, d.Params)

	d, err = nav.Navigate("/login/")
	require.NoError(t, err)
	require.Equal(t, navigation.PageLogin, d.Page)
}

func TestNavigate_UnknownPath(t *testing.T) {
	nav, _ := setupTestFixture(t)

	_, err := nav.Navigate("/nowhere")
	require.ErrorIs(t, err, bookerrors.ErrRouteNotFound)

	_, err = nav.Navigate("/property-details")
	require.ErrorIs(t, err, bookerrors.ErrRouteNotFound)
}

func TestResolve_FollowsRedirects(t *testing.T) {
	nav, auth := setupTestFixture(t)
	auth.authenticated = false

	d, err := nav.Resolve("/admin-roles")
	require.NoError(t, err)
	require.Equal(t, navigation.PageLogin, d.Page)
	require.True(t, d.Allowed())
}

func TestNestedRoutesInheritRequirements(t *testing.T) {
	auth := &fakeAuth{authenticated: true, role: booking.RoleOwner}
	nav, err := navigation.New(auth, []navigation.Route{
		{Pattern: "/", Page: navigation.PageHome},
		{
			Pattern: "/admin",
			Meta:    navigation.Meta{RequiresAuth: true, RequiresSuperadmin: true, Title: "Admin"},
			Children: []navigation.Route{
				{Pattern: "/roles", Page: navigation.PageAdminRoles},
				{Pattern: "/rooms/{id}", Page: navigation.PageManageRooms, Meta: navigation.Meta{Title: "Room"}},
			},
		},
	})
	require.NoError(t, err)

	d, err := nav.Navigate("/admin/roles")
	require.NoError(t, err)
	require.Equal(t, navigation.HomePath, d.Redirect)
	require.Equal(t, "Admin", d.Title)

	auth.role = booking.RoleSuperAdmin
	d, err = nav.Navigate("/admin/rooms/3")
	require.NoError(t, err)
	require.True(t, d.Allowed())
	require.Equal(t, "Room", d.Title)
	require.Equal(t, "3", d.Params["id"])

	// The parent itself declares no page.
	_, err = nav.Navigate("/admin")
	require.ErrorIs(t, err, bookerrors.ErrRouteNotFound)
}

func TestNew_InvalidRoutes(t *testing.T) {
	_, err := navigation.New(nil, navigation.Routes())
	require.ErrorIs(t, err, bookerrors.ErrInvalidInput)

	_, err = navigation.New(&fakeAuth{}, []navigation.Route{{Pattern: "login", Page: navigation.PageLogin}})
	require.ErrorIs(t, err, bookerrors.ErrInvalidInput)

	_, err = navigation.New(&fakeAuth{}, []navigation.Route{
		{Pattern: "/login", Page: navigation.PageLogin},
		{Pattern: "/login", Page: navigation.PageHome},
	})
	require.ErrorIs(t, err, bookerrors.ErrInvalidInput)
}

func TestResolve_RedirectLoop(t *testing.T) {
	auth := &fakeAuth{}
	nav, err := navigation.New(auth, []navigation.Route{
		{Pattern: "/", Page: navigation.PageHome, Meta: navigation.Meta{RequiresAuth: true}},
		{Pattern: "/login", Page: navigation.PageLogin, Meta: navigation.Meta{RequiresAuth: true}},
	})
	require.NoError(t, err)

	_, err = nav.Resolve("/")
	require.ErrorIs(t, err, bookerrors.ErrInternal)
}
