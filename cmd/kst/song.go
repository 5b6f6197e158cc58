package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/keys"
	"github.com/franz/karaoke-tracker/internal/meta"
	"github.com/franz/karaoke-tracker/internal/stats"
	"github.com/franz/karaoke-tracker/internal/store"
	"github.com/franz/karaoke-tracker/internal/util"
)

var songCmd = &cobra.Command{
	Use:   "song",
	Short: "Manage the song repertoire",
}

var songAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a song to the repertoire",
	Long: `Add a song to the repertoire.

Name and artist can be typed with --name/--artist or read from an
audio file's embedded tags with --from-file.`,
	RunE: runSongAdd,
}

var songListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all songs",
	RunE:  runSongList,
}

var songShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a song with its per-venue details",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongShow,
}

var songRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a song, its venue entries and its performance history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSongRm,
}

func init() {
	rootCmd.AddCommand(songCmd)
	songCmd.AddCommand(songAddCmd, songListCmd, songShowCmd, songRmCmd)

	songAddCmd.Flags().String("name", "", "song name")
	songAddCmd.Flags().String("artist", "", "artist")
	songAddCmd.Flags().String("from-file", "", "read name/artist from an audio file's tags")
	songAddCmd.Flags().String("reference-key", "", "original/reference key (e.g. \"C#\", \"Am\")")
	songAddCmd.Flags().String("preferred-key", "", "preferred key to sing in")
	songAddCmd.Flags().String("lyrics", "", "lyrics")
}

func runSongAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	artist, _ := cmd.Flags().GetString("artist")

	if fromFile, _ := cmd.Flags().GetString("from-file"); fromFile != "" {
		tags, err := meta.ReadSongTags(fromFile)
		if err != nil {
			return err
		}
		if name == "" {
			name = tags.Title
		}
		if artist == "" {
			artist = tags.Artist
		}
		util.DebugLog("Tags from %s: %q by %q", fromFile, tags.Title, tags.Artist)
	}
	if name == "" {
		return fmt.Errorf("song name required (--name or --from-file)")
	}

	refKey, _ := cmd.Flags().GetString("reference-key")
	prefKey, _ := cmd.Flags().GetString("preferred-key")
	lyrics, _ := cmd.Flags().GetString("lyrics")

	for _, k := range []string{refKey, prefKey} {
		if k != "" {
			if _, ok := keys.ParseKey(k); !ok {
				return fmt.Errorf("unrecognized key name %q", k)
			}
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	song := &store.Song{
		Name:         name,
		Artist:       artist,
		ReferenceKey: refKey,
		PreferredKey: prefKey,
		Lyrics:       lyrics,
	}
	if err := st.InsertSong(song); err != nil {
		return err
	}

	util.SuccessLog("Added song %d: %s - %s", song.ID, song.Artist, song.Name)
	return nil
}

func runSongList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	songs, err := st.ListSongs()
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		fmt.Println("No songs yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	header := color.New(color.Bold)
	fmt.Fprintf(w, "%s\n", header.Sprint("ID\tSONG\tARTIST\tKEY\tSUNG\tLAST"))
	for _, song := range songs {
		last := "never"
		if song.LastPerformed != nil {
			last = song.LastPerformed.Format("2006-01-02")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			song.ID, song.Name, song.Artist, song.PreferredKey,
			song.TotalPerformances, last)
	}
	return w.Flush()
}

func runSongShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	song, err := st.GetSongByID(id)
	if err != nil {
		return err
	}
	if song == nil {
		return fmt.Errorf("song %d: %w", id, util.ErrNotFound)
	}

	bold := color.New(color.Bold)
	bold.Printf("%s - %s\n", song.Artist, song.Name)
	if song.ReferenceKey != "" {
		fmt.Printf("  Reference key: %s\n", song.ReferenceKey)
	}
	if song.PreferredKey != "" {
		fmt.Printf("  Preferred key: %s", song.PreferredKey)
		if from, okFrom := keys.ParseKey(song.ReferenceKey); okFrom {
			if to, okTo := keys.ParseKey(song.PreferredKey); okTo {
				fmt.Printf(" (%+d from reference)", keys.Adjustment(from, to))
			}
		}
		fmt.Println()
	}
	fmt.Printf("  Performances: %d\n", song.TotalPerformances)
	if song.LastPerformed != nil {
		fmt.Printf("  Last performed: %s\n", song.LastPerformed.Format("2006-01-02 15:04"))
	}

	infos, err := st.ListSongVenueInfoBySong(id)
	if err != nil {
		return err
	}
	for _, info := range infos {
		venue, err := st.GetVenueByID(info.VenueID)
		if err != nil {
			return err
		}
		venueName := fmt.Sprintf("venue %d", info.VenueID)
		if venue != nil {
			venueName = venue.Name
		}
		fmt.Printf("  At %s:", venueName)
		if info.VenuesSongID != "" {
			fmt.Printf(" code %s,", info.VenuesSongID)
		}
		if info.KeyAdjustment != nil {
			fmt.Printf(" %+d steps,", *info.KeyAdjustment)
		} else {
			fmt.Printf(" adjustment unknown,")
		}
		fmt.Printf(" sung %d times\n", info.PerformanceCount)
	}

	return nil
}

func runSongRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := stats.New(st).DeleteSong(id); err != nil {
		return err
	}
	util.SuccessLog("Deleted song %d", id)
	return nil
}
