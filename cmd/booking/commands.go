package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jrsteele09/go-booking-client/booking"
	bookerrors "github.com/jrsteele09/go-booking-client/internal/errors"
	"github.com/rs/zerolog/log"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":            {"sign in with email and password", cmdLogin},
	"register":         {"create an account", cmdRegister},
	"logout":           {"end the session", cmdLogout},
	"forgot-password":  {"email a password reset link", cmdForgotPassword},
	"reset-password":   {"set a new password from a reset token", cmdResetPassword},
	"refresh":          {"exchange the refresh token for a new access token", cmdRefresh},
	"status":           {"show the session and its token claims", cmdStatus},
	"user":             {"show the signed in user", cmdUser},
	"update-user":      {"change name, email or password", cmdUpdateUser},
	"delete-user":      {"delete the signed in account", cmdDeleteUser},
	"set-role":         {"change a user's role (superadmin)", cmdSetRole},
	"properties":       {"search available properties", cmdProperties},
	"owner-properties": {"list the properties you own", cmdOwnerProperties},
	"property":         {"show one property", cmdProperty},
	"add-property":     {"create a property", cmdAddProperty},
	"update-property":  {"update a property", cmdUpdateProperty},
	"delete-property":  {"delete a property", cmdDeleteProperty},
	"rooms":            {"list rooms", cmdRooms},
	"add-room":         {"create a room", cmdAddRoom},
	"update-room":      {"update a room", cmdUpdateRoom},
	"delete-room":      {"delete a room", cmdDeleteRoom},
	"reservations":     {"list your reservations", cmdReservations},
	"reservation":      {"show one reservation", cmdReservation},
	"book":             {"reserve a room", cmdBook},
	"cancel":           {"cancel a reservation", cmdCancel},
	"favorites":        {"list favorite properties", cmdFavorites},
	"favorite":         {"add a property to favorites", cmdFavorite},
	"unfavorite":       {"remove a favorite", cmdUnfavorite},
	"reviews":          {"list the reviews of a property", cmdReviews},
	"review":           {"write or edit a review", cmdReview},
	"delete-review":    {"delete a review", cmdDeleteReview},
	"navigate":         {"resolve an application path through the guard", cmdNavigate},
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// requireID fails when an id flag was left at zero.
func requireID(name string, id int) error {
	if id <= 0 {
		return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "-%s is required", name)
	}
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", os.Getenv("BOOKING_PASSWORD"), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.store.Login(ctx, booking.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	if user := a.store.User(); user != nil {
		log.Info().Str("user", user.Name).Str("role", string(user.Role)).Msg("Signed in")
	}
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	var reg booking.Registration
	fs.StringVar(&reg.Name, "name", "", "display name")
	fs.StringVar(&reg.Email, "email", "", "account email")
	fs.StringVar(&reg.Password, "password", "", "account password")
	role := fs.String("role", "", "requested role, user or owner")
	if err := fs.Parse(args); err != nil {
		return err
	}
	reg.Role = booking.RoleType(*role)
	if err := a.store.Register(ctx, reg); err != nil {
		return err
	}
	log.Info().Msg("Account created, you can now sign in")
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	err := a.store.Logout(ctx)
	log.Info().Msg("Signed out")
	return err
}

func cmdForgotPassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("forgot-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.store.ForgotPassword(ctx, *email)
}

func cmdResetPassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("reset-password")
	token := fs.String("token", "", "token from the reset link")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.store.ResetPassword(ctx, *token, *password)
}

func cmdRefresh(ctx context.Context, a *app, _ []string) error {
	return a.store.RefreshToken(ctx)
}

type statusOutput struct {
	Authenticated bool       `json:"authenticated"`
	Subject       string     `json:"subject,omitempty"`
	Role          string     `json:"role,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
	API           string     `json:"api"`
	TokenFile     string     `json:"token_file"`
}

func cmdStatus(_ context.Context, a *app, _ []string) error {
	out := statusOutput{
		Authenticated: a.store.IsAuthenticated(),
		API:           a.cfg.GetBaseURL(),
		TokenFile:     a.cfg.GetTokenFile(),
	}
	if out.Authenticated {
		claims, err := a.session.Claims()
		if err != nil {
			log.Warn().Err(err).Msg("Access token is not a readable JWT")
		} else {
			out.Subject = claims.Subject
			out.Role = claims.Role
			if !claims.ExpiresAt.IsZero() {
				out.ExpiresAt = &claims.ExpiresAt
				out.Expired = claims.Expired(time.Now())
			}
		}
	}
	return printJSON(out)
}

func cmdUser(ctx context.Context, a *app, _ []string) error {
	user, err := a.store.FetchUser(ctx)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func cmdUpdateUser(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-user")
	var update booking.UserUpdate
	fs.StringVar(&update.Name, "name", "", "new display name")
	fs.StringVar(&update.Email, "email", "", "new email")
	fs.StringVar(&update.Password, "password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.store.UpdateUser(ctx, update)
	if err != nil {
		return err
	}
	return printJSON(user)
}

func cmdDeleteUser(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-user")
	confirm := fs.Bool("yes", false, "confirm deletion")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*confirm {
		return errors.New("refusing to delete the account without -yes")
	}
	return a.store.DeleteUser(ctx)
}

func cmdSetRole(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("set-role")
	userID := fs.Int("user", 0, "user id")
	role := fs.String("role", "", "user, owner or superadmin")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("user", *userID); err != nil {
		return err
	}
	return a.store.UpdateUserRole(ctx, *userID, booking.RoleType(*role))
}

func cmdProperties(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("properties")
	var filter booking.PropertyFilter
	fs.StringVar(&filter.CheckIn, "check-in", "", "check in date (dd-mm-yyyy)")
	fs.StringVar(&filter.CheckOut, "check-out", "", "check out date (dd-mm-yyyy)")
	fs.StringVar(&filter.Region, "region", "", "region name")
	fs.Float64Var(&filter.PriceMax, "price-max", 0, "maximum nightly price")
	fs.IntVar(&filter.NumPersons, "persons", 0, "number of guests")
	facilities := fs.String("facilities", "", "comma separated facility ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, s := range splitList(*facilities) {
		id, err := strconv.Atoi(s)
		if err != nil {
			return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "facility %q", s)
		}
		filter.Facilities = append(filter.Facilities, id)
	}
	for _, d := range []string{filter.CheckIn, filter.CheckOut} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(booking.DateLayout, d); err != nil {
			return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "date %q must be dd-mm-yyyy", d)
		}
	}

	result, err := a.store.FetchProperties(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func cmdOwnerProperties(ctx context.Context, a *app, _ []string) error {
	if _, err := a.store.FetchUser(ctx); err != nil {
		return err
	}
	if _, err := a.store.FetchOwnerProperties(ctx); err != nil {
		return err
	}
	return printJSON(a.store.UserProperties())
}

func cmdProperty(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("property")
	id := fs.Int("id", 0, "property id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	property, err := a.store.FetchPropertyDetails(ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(property)
}

// propertyFlags binds the editable property fields to fs. The returned
// function loads the listed image files once flags are parsed.
func propertyFlags(fs *flag.FlagSet, in *booking.PropertyInput) func() error {
	fs.StringVar(&in.Name, "name", "", "property name")
	fs.StringVar(&in.Address, "address", "", "street address")
	fs.StringVar(&in.PostalCode, "postal-code", "", "postal code")
	fs.StringVar(&in.Country, "country", "", "country")
	fs.StringVar(&in.Region, "region", "", "region")
	fs.Float64Var(&in.Latitude, "lat", 0, "latitude")
	fs.Float64Var(&in.Longitude, "lng", 0, "longitude")
	fs.StringVar(&in.CheckIn, "check-in", "", "check in time")
	fs.StringVar(&in.CheckOut, "check-out", "", "check out time")
	fs.Float64Var(&in.Price, "price", 0, "nightly price")
	fs.StringVar(&in.Currency, "currency", "EUR", "price currency")
	fs.IntVar(&in.Stars, "stars", 0, "star rating")
	fs.StringVar(&in.Type, "type", "", "property type")
	fs.StringVar(&in.Description, "description", "", "description")
	images := fs.String("images", "", "comma separated image files to upload")

	return func() error {
		for _, path := range splitList(*images) {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			in.Images = append(in.Images, booking.Image{Filename: filepath.Base(path), Data: data})
		}
		return nil
	}
}

func cmdAddProperty(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-property")
	var in booking.PropertyInput
	loadImages := propertyFlags(fs, &in)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := loadImages(); err != nil {
		return err
	}
	created, err := a.store.CreateProperty(ctx, in)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func cmdUpdateProperty(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-property")
	var in booking.PropertyInput
	fs.IntVar(&in.ID, "id", 0, "property id")
	fs.BoolVar(&in.Availability, "available", true, "whether the property can be booked")
	loadImages := propertyFlags(fs, &in)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", in.ID); err != nil {
		return err
	}
	if err := loadImages(); err != nil {
		return err
	}
	updated, err := a.store.UpdateProperty(ctx, in)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func cmdDeleteProperty(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-property")
	id := fs.Int("id", 0, "property id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	return a.store.DeleteProperty(ctx, *id)
}

func cmdRooms(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("rooms")
	var filter booking.RoomFilter
	fs.IntVar(&filter.PropertyID, "property", 0, "only rooms of this property")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rooms, err := a.store.FetchRooms(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(rooms)
}

func roomFlags(fs *flag.FlagSet, room *booking.Room) {
	fs.IntVar(&room.PropertyID, "property", 0, "property id")
	fs.StringVar(&room.RoomType, "type", "", "room type")
	fs.IntVar(&room.Persons, "persons", 0, "guest capacity")
	fs.Float64Var(&room.Price, "price", 0, "nightly price")
	fs.StringVar(&room.Currency, "currency", "EUR", "price currency")
}

func cmdAddRoom(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add-room")
	var room booking.Room
	roomFlags(fs, &room)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("property", room.PropertyID); err != nil {
		return err
	}
	created, err := a.store.CreateRoom(ctx, room)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func cmdUpdateRoom(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("update-room")
	var room booking.Room
	fs.IntVar(&room.ID, "id", 0, "room id")
	roomFlags(fs, &room)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", room.ID); err != nil {
		return err
	}
	updated, err := a.store.UpdateRoom(ctx, room)
	if err != nil {
		return err
	}
	return printJSON(updated)
}

func cmdDeleteRoom(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-room")
	id := fs.Int("id", 0, "room id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	return a.store.DeleteRoom(ctx, *id)
}

func cmdReservations(ctx context.Context, a *app, _ []string) error {
	reservations, err := a.store.FetchReservations(ctx)
	if err != nil {
		return err
	}
	return printJSON(reservations)
}

func cmdReservation(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("reservation")
	id := fs.Int("id", 0, "reservation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	reservation, err := a.store.ViewReservation(ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(reservation)
}

func cmdBook(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("book")
	var req booking.ReservationRequest
	fs.IntVar(&req.RoomID, "room", 0, "room id")
	fs.StringVar(&req.CheckInDate, "check-in", "", "check in date (dd-mm-yyyy)")
	fs.StringVar(&req.CheckOutDate, "check-out", "", "check out date (dd-mm-yyyy)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("room", req.RoomID); err != nil {
		return err
	}
	checkIn, err := time.Parse(booking.DateLayout, req.CheckInDate)
	if err != nil {
		return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "check in date %q must be dd-mm-yyyy", req.CheckInDate)
	}
	checkOut, err := time.Parse(booking.DateLayout, req.CheckOutDate)
	if err != nil {
		return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "check out date %q must be dd-mm-yyyy", req.CheckOutDate)
	}
	if !checkOut.After(checkIn) {
		return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "check out must be after check in")
	}

	created, err := a.store.CreateReservation(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(created)
}

func cmdCancel(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("cancel")
	id := fs.Int("id", 0, "reservation id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	if _, err := a.store.FetchReservations(ctx); err != nil {
		return err
	}
	if err := a.store.CancelReservation(ctx, *id); err != nil {
		return err
	}
	return printJSON(a.store.Reservations())
}

func cmdFavorites(ctx context.Context, a *app, _ []string) error {
	favorites, err := a.store.FetchFavorites(ctx)
	if err != nil {
		return err
	}
	return printJSON(favorites)
}

func cmdFavorite(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("favorite")
	propertyID := fs.Int("property", 0, "property id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("property", *propertyID); err != nil {
		return err
	}
	if _, err := a.store.CreateFavorite(ctx, *propertyID); err != nil {
		return err
	}
	return printJSON(a.store.Favorites())
}

func cmdUnfavorite(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("unfavorite")
	id := fs.Int("id", 0, "favorite id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", *id); err != nil {
		return err
	}
	return a.store.DeleteFavorite(ctx, *id)
}

func cmdReviews(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("reviews")
	propertyID := fs.Int("property", 0, "property id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("property", *propertyID); err != nil {
		return err
	}
	reviews, err := a.store.FetchReviews(ctx, *propertyID)
	if err != nil {
		return err
	}
	return printJSON(reviews)
}

func cmdReview(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("review")
	var review booking.Review
	fs.IntVar(&review.ID, "id", 0, "review id, set to edit an existing review")
	fs.IntVar(&review.PropertyID, "property", 0, "property id")
	fs.StringVar(&review.ReviewText, "text", "", "review text")
	rating := fs.Float64("rating", 0, "rating applied to every category unless overridden")
	fs.Float64Var(&review.RatingPersonal, "personal", 0, "staff rating")
	fs.Float64Var(&review.RatingFacilities, "facilities", 0, "facilities rating")
	fs.Float64Var(&review.RatingCleanliness, "cleanliness", 0, "cleanliness rating")
	fs.Float64Var(&review.RatingComfort, "comfort", 0, "comfort rating")
	fs.Float64Var(&review.RatingValueForMoney, "value", 0, "value for money rating")
	fs.Float64Var(&review.RatingLocation, "location", 0, "location rating")
	fs.Float64Var(&review.RatingWifi, "wifi", 0, "wifi rating")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("property", review.PropertyID); err != nil {
		return err
	}
	for _, r := range []*float64{
		&review.RatingPersonal, &review.RatingFacilities, &review.RatingCleanliness, &review.RatingComfort,
		&review.RatingValueForMoney, &review.RatingLocation, &review.RatingWifi,
	} {
		if *r == 0 {
			*r = *rating
		}
	}

	var err error
	if review.ID != 0 {
		err = a.store.UpdateReview(ctx, review)
	} else {
		err = a.store.CreateReview(ctx, review)
	}
	if err != nil {
		return err
	}
	return printJSON(a.store.Reviews())
}

func cmdDeleteReview(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete-review")
	var review booking.Review
	fs.IntVar(&review.ID, "id", 0, "review id")
	fs.IntVar(&review.PropertyID, "property", 0, "property id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID("id", review.ID); err != nil {
		return err
	}
	if err := requireID("property", review.PropertyID); err != nil {
		return err
	}
	return a.store.DeleteReview(ctx, review)
}

func cmdNavigate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("navigate")
	follow := fs.Bool("follow", true, "follow redirects to the page finally shown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return bookerrors.Wrapf(bookerrors.ErrInvalidInput, "navigate takes exactly one path")
	}

	// The superadmin check needs the user's role, not just a token.
	if a.store.IsAuthenticated() && a.store.User() == nil {
		if _, err := a.store.FetchUser(ctx); err != nil {
			log.Warn().Err(err).Msg("Could not load the signed in user")
		}
	}

	resolve := a.nav.Navigate
	if *follow {
		resolve = a.nav.Resolve
	}
	decision, err := resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	return printJSON(decision)
}
