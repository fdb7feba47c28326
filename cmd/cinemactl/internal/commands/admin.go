package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/kirinyoku/cinemago/internal/domain"
)

type MoviesCmd struct {
	List   MoviesListCmd   `cmd:"" help:"List movies of the group"`
	Delete MoviesDeleteCmd `cmd:"" help:"Delete a movie"`
}

type MoviesListCmd struct{}

func (m *MoviesListCmd) Run(ctx context.Context, g *Globals) error {
	ctx, _, err := g.adminContext(ctx)
	if err != nil {
		return err
	}

	movies, err := g.Admin.Movies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list movies: %w", err)
	}

	if len(movies) == 0 {
		fmt.Fprintln(g.Out, "No movies found.")
		return nil
	}

	w := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRELEASE\tRATING\tSTATUS")
	for _, mv := range movies {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%s\n", mv.ID, mv.Title, mv.ReleaseDate, mv.Rating, movieStatus(mv))
	}
	return w.Flush()
}

func movieStatus(m domain.Movie) string {
	switch {
	case m.NowShowing && m.Hot:
		return "showing, hot"
	case m.NowShowing:
		return "showing"
	case m.ComingSoon:
		return "coming soon"
	default:
		return "-"
	}
}

type MoviesDeleteCmd struct {
	ID int64 `arg:"" help:"Movie ID"`
}

func (m *MoviesDeleteCmd) Run(ctx context.Context, g *Globals) error {
	ctx, sess, err := g.adminContext(ctx)
	if err != nil {
		return err
	}

	if err := g.Admin.DeleteMovie(ctx, sess, m.ID); err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", m.ID, err)
	}

	fmt.Fprintf(g.Out, "Movie %d deleted\n", m.ID)
	return nil
}

type UsersCmd struct {
	List   UsersListCmd   `cmd:"" help:"List users of the group"`
	Search UsersSearchCmd `cmd:"" help:"Search users by keyword"`
	Delete UsersDeleteCmd `cmd:"" help:"Delete a user"`
}

type UsersListCmd struct{}

func (u *UsersListCmd) Run(ctx context.Context, g *Globals) error {
	return listUsers(ctx, g, "")
}

type UsersSearchCmd struct {
	Keyword string `arg:"" help:"Account, name or email fragment"`
}

func (u *UsersSearchCmd) Run(ctx context.Context, g *Globals) error {
	return listUsers(ctx, g, u.Keyword)
}

func listUsers(ctx context.Context, g *Globals, keyword string) error {
	ctx, _, err := g.adminContext(ctx)
	if err != nil {
		return err
	}

	users, err := g.Admin.Users(ctx, keyword)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(g.Out, "No users found.")
		return nil
	}

	w := tabwriter.NewWriter(g.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tNAME\tEMAIL\tPHONE\tROLE\tPROTECTED")
	for _, usr := range users {
		protected := ""
		if g.Admin.IsProtected(usr.Account) {
			protected = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", usr.Account, usr.FullName, usr.Email, usr.Phone, usr.Role, protected)
	}
	return w.Flush()
}

type UsersDeleteCmd struct {
	Account string `arg:"" help:"Account to delete"`
}

func (u *UsersDeleteCmd) Run(ctx context.Context, g *Globals) error {
	ctx, sess, err := g.adminContext(ctx)
	if err != nil {
		return err
	}

	if err := g.Admin.DeleteUser(ctx, sess, u.Account); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", u.Account, err)
	}

	fmt.Fprintf(g.Out, "User %s deleted\n", u.Account)
	return nil
}

type ShowtimesCmd struct {
	Create ShowtimesCreateCmd `cmd:"" help:"Schedule a movie in a cluster"`
}

type ShowtimesCreateCmd struct {
	Movie   int64   `help:"Movie ID" required:""`
	Cluster string  `help:"Cluster ID (maRap)" required:""`
	Start   string  `help:"Start time, e.g. 2025-05-10T19:30 or 10/05/2025 19:30:00" required:""`
	Price   float64 `help:"Ticket price" default:"75000"`
}

func (s *ShowtimesCreateCmd) Run(ctx context.Context, g *Globals) error {
	ctx, sess, err := g.adminContext(ctx)
	if err != nil {
		return err
	}

	st := domain.NewShowtime{
		MovieID:   s.Movie,
		StartsAt:  s.Start,
		ClusterID: s.Cluster,
		Price:     s.Price,
	}
	if err := g.Admin.CreateShowtime(ctx, sess, st); err != nil {
		return fmt.Errorf("failed to create showtime: %w", err)
	}

	fmt.Fprintf(g.Out, "Showtime created for movie %d at %s\n", s.Movie, s.Cluster)
	return nil
}
