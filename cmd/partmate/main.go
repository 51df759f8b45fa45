package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/musicpartmate/partmate/internal/audio"
	"github.com/musicpartmate/partmate/internal/config"
	"github.com/musicpartmate/partmate/internal/fetch"
	"github.com/musicpartmate/partmate/internal/library"
	"github.com/musicpartmate/partmate/internal/logging"
	"github.com/musicpartmate/partmate/internal/media"
	"github.com/musicpartmate/partmate/internal/model"
	"github.com/musicpartmate/partmate/internal/scan"
)

// imageExts are the document extensions the thumbs command renders.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

func main() {
	// Global flags, given before the command
	var (
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	// Load config
	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *verboseFlag {
		settings.Verbose = true
	}

	log := logging.New(os.Stdout)
	log.SetVerbose(settings.Verbose)

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	lib, err := library.New(settings.ToLibraryConfig(), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	lib.Subscribe(func(event library.Event) {
		log.Debug("%s: %s", event.Type, event.Song.DisplayName())
	})

	verb, args := flag.Arg(0), flag.Args()[1:]

	var cmdErr error
	switch verb {
	case "list":
		cmdErr = cmdList(lib, args)
	case "search":
		cmdErr = cmdSearch(lib, args)
	case "add":
		cmdErr = cmdAdd(lib, args)
	case "remove":
		cmdErr = cmdRemove(lib, args)
	case "show":
		cmdErr = cmdShow(lib, args)
	case "import":
		cmdErr = cmdImport(ctx, lib, settings, args)
	case "export":
		cmdErr = cmdExport(lib, args)
	case "stats":
		cmdErr = cmdStats(lib)
	case "playlist":
		cmdErr = cmdPlaylist(ctx, lib, args)
	case "fetch":
		cmdErr = cmdFetch(ctx, lib, settings, args)
	case "attach":
		cmdErr = cmdAttach(ctx, lib, settings, args)
	case "thumbs":
		cmdErr = cmdThumbs(ctx, lib, settings, args)
	case "tag-write":
		cmdErr = cmdTagWrite(lib, args)
	case "dupes":
		cmdErr = cmdDupes(settings, args)
	case "tidy":
		cmdErr = cmdTidy(settings, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", verb)
		usage()
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Partmate - manage your sheet music, recordings and links")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  partmate [global flags] <command> [command flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list       List songs (-by artist|title|style, -reverse, -artist, -style)")
	fmt.Println("  search     Search songs (-fields title,artist,style) <query>")
	fmt.Println("  add        Add a song (-title, -artist, -tempo, -style, -notes,")
	fmt.Println("             repeatable -doc, -audio, -video, -link)")
	fmt.Println("  remove     Remove a song (-id)")
	fmt.Println("  show       Show one song in full (-id)")
	fmt.Println("  import     Import song folders (-concurrency) <folder>...")
	fmt.Println("  export     Export the library (-format json|csv, -out)")
	fmt.Println("  stats      Show library statistics")
	fmt.Println("  playlist   Write a playlist (-format m3u|pls|wpl|zpl, -extended,")
	fmt.Println("             -out, -name, -id)")
	fmt.Println("  fetch      Download link targets onto a song (-id) <url>...")
	fmt.Println("  attach     Copy files into a song's folder (-id, -type, -move) <file>...")
	fmt.Println("  thumbs     Cache thumbnails for image documents")
	fmt.Println("  tag-write  Write library metadata into a song's MP3 tags (-id)")
	fmt.Println("  dupes      Report duplicate files in the media folder (-root)")
	fmt.Println("  tidy       Remove empty folders in the media folder (-root)")
	fmt.Println()
	fmt.Println("For interactive mode, use: partmate-tui")
	fmt.Println()
	fmt.Println("Global flags:")
	flag.PrintDefaults()
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func cmdList(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	by := fs.String("by", "artist", "Sort key: artist, title or style")
	reverse := fs.Bool("reverse", false, "Reverse the sort order")
	artist := fs.String("artist", "", "Only songs by this artist (exact, case-insensitive)")
	style := fs.String("style", "", "Only songs in this style (exact, case-insensitive)")
	fs.Parse(args)

	switch {
	case *artist != "":
		printSongs(lib.FilterByArtist(*artist))
	case *style != "":
		printSongs(lib.FilterByStyle(*style))
	default:
		printSongs(lib.SongsSorted(*by, *reverse))
	}
	return nil
}

func cmdSearch(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	fieldsFlag := fs.String("fields", "all", "Comma-separated fields to search: title, artist, style")
	fs.Parse(args)

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		return fmt.Errorf("search needs a query")
	}

	var fields []string
	if *fieldsFlag != "all" {
		for _, field := range strings.Split(*fieldsFlag, ",") {
			field = strings.TrimSpace(field)
			switch field {
			case "title", "artist", "style":
				fields = append(fields, field)
			default:
				return fmt.Errorf("unknown search field %q", field)
			}
		}
	}

	printSongs(lib.SearchSongs(query, fields...))
	return nil
}

func cmdAdd(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "Song title")
	artist := fs.String("artist", "", "Artist name")
	tempo := fs.String("tempo", "", "Tempo, free text (e.g. \"120 BPM\")")
	style := fs.String("style", "", "Musical style")
	notes := fs.String("notes", "", "Free-text notes")
	var docs, audios, videos, links stringList
	fs.Var(&docs, "doc", "Document path (repeatable)")
	fs.Var(&audios, "audio", "Audio path (repeatable)")
	fs.Var(&videos, "video", "Video path (repeatable)")
	fs.Var(&links, "link", "Related URL (repeatable)")
	fs.Parse(args)

	song := model.NewSong(*title, *artist)
	song.Tempo = *tempo
	song.Style = *style
	if *notes != "" {
		song.Metadata[model.MetadataNotes] = *notes
	}
	for _, path := range docs {
		song.AddDocument(path)
	}
	for _, path := range audios {
		song.AddAudio(path)
	}
	for _, path := range videos {
		song.AddVideo(path)
	}
	for _, link := range links {
		song.AddLink(link)
	}

	if lib.AddSong(song) {
		fmt.Printf("✅ Added %s (%s)\n", song.DisplayName(), song.ID)
		return nil
	}
	if dup := lib.FindDuplicate(song); dup != nil {
		return fmt.Errorf("already in the library: %s", dup.DisplayName())
	}
	return fmt.Errorf("invalid song: %s", strings.Join(song.Validate(), "; "))
}

func cmdRemove(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	id := fs.String("id", "", "Song ID")
	fs.Parse(args)

	song, err := findSong(lib, *id)
	if err != nil {
		return err
	}
	if !lib.RemoveSong(song) {
		return fmt.Errorf("could not remove %s", song.DisplayName())
	}
	fmt.Printf("✅ Removed %s\n", song.DisplayName())
	return nil
}

func cmdShow(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.String("id", "", "Song ID")
	fs.Parse(args)

	song, err := findSong(lib, *id)
	if err != nil {
		return err
	}

	fmt.Println(song.DisplayName())
	fmt.Printf("  ID:    %s\n", song.ID)
	if song.Tempo != "" {
		fmt.Printf("  Tempo: %s\n", song.Tempo)
	}
	if song.Style != "" {
		fmt.Printf("  Style: %s\n", song.Style)
	}
	if song.Path != "" {
		fmt.Printf("  Folder: %s\n", song.Path)
	}
	printList := func(label string, items []string, files bool) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("  %s:\n", label)
		for _, item := range items {
			if files && media.FileExists(item) {
				fmt.Printf("    %s (%s)\n", item, media.FileSizeHuman(item))
			} else {
				fmt.Printf("    %s\n", item)
			}
		}
	}
	printList("Documents", song.Documents, true)
	printList("Audio", song.Audios, true)
	printList("Video", song.Videos, true)
	printList("Links", song.Links, false)
	if notes := song.Notes(); notes != "" {
		fmt.Printf("  Notes: %s\n", notes)
	}
	return nil
}

func cmdImport(ctx context.Context, lib *library.Library, settings *config.Settings, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	concurrency := fs.Int("concurrency", 0, "Parallel folder imports (0 = config value)")
	fs.Parse(args)

	folders := fs.Args()
	if len(folders) == 0 {
		return fmt.Errorf("import needs at least one folder")
	}
	if *concurrency > 0 {
		settings.MaxConcurrentImports = *concurrency
	}

	importer := scan.NewImporter(settings, func(song *model.Song) bool {
		return lib.AddSong(song)
	}, func(event scan.Event) {
		if event.Level == scan.LevelVerbose && !settings.Verbose {
			return
		}
		prefix := "   "
		switch event.Level {
		case scan.LevelError:
			prefix = "❌ "
		case scan.LevelWarning:
			prefix = "⚠️  "
		case scan.LevelSuccess:
			prefix = "✅ "
		case scan.LevelInfo:
			prefix = "ℹ️  "
		}
		fmt.Println(prefix + event.Message)
	})

	result, err := importer.Run(ctx, folders)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nImport cancelled.")
			os.Exit(130)
		}
		return err
	}

	fmt.Println()
	fmt.Printf("✨ Imported %d folder(s), %d failed\n", result.Imported, result.Failed)
	return nil
}

func cmdExport(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", library.FormatJSON, "Export format: json or csv")
	out := fs.String("out", "", "Output file (default songs_export.<format>)")
	fs.Parse(args)

	path := *out
	if path == "" {
		path = "songs_export." + *format
	}
	if err := lib.Export(path, *format); err != nil {
		return err
	}
	fmt.Printf("✅ Exported %d song(s) to %s\n", lib.SongCount(), path)
	return nil
}

func cmdStats(lib *library.Library) error {
	stats := lib.Statistics()

	fmt.Println("📊 Library statistics")
	fmt.Println()
	fmt.Printf("  Songs:   %d\n", stats.TotalSongs)
	fmt.Printf("  Artists: %d\n", stats.TotalArtists)
	fmt.Printf("  Styles:  %d\n", stats.TotalStyles)
	fmt.Println()
	fmt.Printf("  With documents: %d\n", stats.SongsWithDocuments)
	fmt.Printf("  With audio:     %d\n", stats.SongsWithAudio)
	fmt.Printf("  With video:     %d\n", stats.SongsWithVideo)
	if stats.MostCommonStyle != "" {
		fmt.Println()
		fmt.Printf("  Most common style:    %s\n", stats.MostCommonStyle)
	}
	if stats.MostProlificArtist != "" {
		fmt.Printf("  Most prolific artist: %s\n", stats.MostProlificArtist)
	}
	return nil
}

func cmdPlaylist(ctx context.Context, lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ExitOnError)
	formatFlag := fs.String("format", "m3u", "Playlist format: m3u, pls, wpl or zpl")
	extended := fs.Bool("extended", false, "For m3u, include #EXTINF title lines")
	out := fs.String("out", ".", "Output directory")
	name := fs.String("name", "", "Playlist name (default: song name or \"library\")")
	id := fs.String("id", "", "Limit to one song")
	fs.Parse(args)

	format, err := audio.ParsePlaylistFormat(*formatFlag)
	if err != nil {
		return err
	}

	var songs []*model.Song
	playlistName := *name
	if *id != "" {
		song, err := findSong(lib, *id)
		if err != nil {
			return err
		}
		songs = []*model.Song{song}
		if playlistName == "" {
			playlistName = song.DisplayName()
		}
	} else {
		songs = lib.Songs()
		if playlistName == "" {
			playlistName = "library"
		}
	}

	entries := 0
	for _, song := range songs {
		entries += len(song.Audios)
	}
	if entries == 0 {
		return fmt.Errorf("no audio recordings to play")
	}

	creator := audio.NewPlaylistCreator(format, *extended)
	path, err := creator.SavePlaylist(ctx, *out, playlistName, songs)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Wrote playlist %s (%d recording(s))\n", path, entries)
	return nil
}

func cmdFetch(ctx context.Context, lib *library.Library, settings *config.Settings, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	id := fs.String("id", "", "Song ID to attach the downloads to")
	fs.Parse(args)

	urls := fs.Args()
	if len(urls) == 0 {
		return fmt.Errorf("fetch needs at least one URL")
	}

	song, err := findSong(lib, *id)
	if err != nil {
		return err
	}

	client := fetch.NewClient(settings.FetchMaxRetries, settings.FetchRetryCooldown)
	if settings.Verbose {
		client.OnProgress = func(written, total int64) {
			if total > 0 {
				fmt.Printf("\r   %.1f%%", float64(written)/float64(total)*100)
			}
		}

		var total int64
		for _, rawURL := range urls {
			size, err := client.FileSize(ctx, rawURL)
			if err != nil {
				continue
			}
			total += size
		}
		if total > 0 {
			fmt.Printf("ℹ️  Download size: %s\n", media.HumanSize(total))
		}
	}

	updated := song.Clone()
	folder, err := media.CreateSongFolder(filepath.Join(settings.DataDir, "media"), updated.Artist, updated.Title)
	if err != nil {
		return err
	}

	fetched := 0
	for _, rawURL := range urls {
		mediaType, ok := settings.MediaTypeFor(urlPath(rawURL))
		if !ok {
			mediaType = model.MediaDocument
		}

		local, err := client.Fetch(ctx, rawURL, folder.Subdir(mediaType))
		if settings.Verbose {
			fmt.Println()
		}
		if err != nil {
			fmt.Printf("⚠️  %v\n", err)
			continue
		}

		switch mediaType {
		case model.MediaAudio:
			updated.AddAudio(local)
		case model.MediaVideo:
			updated.AddVideo(local)
		default:
			updated.AddDocument(local)
		}
		updated.AddLink(rawURL)
		fetched++
		fmt.Printf("✅ Fetched %s\n", local)
	}

	if fetched == 0 {
		return fmt.Errorf("nothing fetched")
	}
	if !lib.UpdateSong(updated) {
		return fmt.Errorf("could not attach downloads to %s", song.DisplayName())
	}
	fmt.Printf("✨ Attached %d file(s) to %s\n", fetched, updated.DisplayName())
	return nil
}

func cmdAttach(ctx context.Context, lib *library.Library, settings *config.Settings, args []string) error {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)
	id := fs.String("id", "", "Song ID to attach the files to")
	typeFlag := fs.String("type", "", "Force media type: document, audio or video (default: by extension)")
	move := fs.Bool("move", false, "Move files instead of copying")
	fs.Parse(args)

	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("attach needs at least one file")
	}

	song, err := findSong(lib, *id)
	if err != nil {
		return err
	}

	forced := model.MediaType(-1)
	switch *typeFlag {
	case "":
	case "document":
		forced = model.MediaDocument
	case "audio":
		forced = model.MediaAudio
	case "video":
		forced = model.MediaVideo
	default:
		return fmt.Errorf("unknown media type %q", *typeFlag)
	}

	updated := song.Clone()
	folder, err := media.CreateSongFolder(filepath.Join(settings.DataDir, "media"), updated.Artist, updated.Title)
	if err != nil {
		return err
	}

	attached := 0
	for _, file := range files {
		mediaType := forced
		if mediaType < 0 {
			var ok bool
			mediaType, ok = settings.MediaTypeFor(file)
			if !ok {
				mediaType = model.MediaDocument
			}
		}

		var local string
		var attachErr error
		if *move {
			local, attachErr = media.MoveIntoSongFolder(ctx, file, folder, mediaType)
			// A copy that landed is usable even when removing the
			// source failed.
			if attachErr != nil && local != "" {
				fmt.Printf("⚠️  %v\n", attachErr)
				attachErr = nil
			}
		} else {
			local, attachErr = media.CopyIntoSongFolder(ctx, file, folder, mediaType)
		}
		if attachErr != nil {
			fmt.Printf("⚠️  %v\n", attachErr)
			continue
		}

		switch mediaType {
		case model.MediaAudio:
			updated.AddAudio(local)
		case model.MediaVideo:
			updated.AddVideo(local)
		default:
			updated.AddDocument(local)
		}
		attached++
		fmt.Printf("✅ Attached %s\n", local)
	}

	if attached == 0 {
		return fmt.Errorf("nothing attached")
	}
	if !lib.UpdateSong(updated) {
		return fmt.Errorf("could not update %s", song.DisplayName())
	}
	fmt.Printf("✨ Attached %d file(s) to %s\n", attached, updated.DisplayName())
	return nil
}

func cmdThumbs(ctx context.Context, lib *library.Library, settings *config.Settings, args []string) error {
	fs := flag.NewFlagSet("thumbs", flag.ExitOnError)
	fs.Parse(args)

	cacheDir := filepath.Join(settings.CacheDir, "thumbs")
	svc := media.NewImageService()

	cached := 0
	for _, song := range lib.Songs() {
		for _, doc := range song.Documents {
			if !imageExts[strings.ToLower(filepath.Ext(doc))] {
				continue
			}
			thumb, err := svc.ThumbnailInto(ctx, doc, cacheDir, settings.ThumbnailMaxSize)
			if err != nil {
				fmt.Printf("⚠️  %v\n", err)
				continue
			}
			if settings.Verbose {
				fmt.Printf("   %s -> %s\n", doc, thumb)
			}
			cached++
		}
	}

	fmt.Printf("✨ Cached %d thumbnail(s) in %s\n", cached, cacheDir)
	return nil
}

func cmdTagWrite(lib *library.Library, args []string) error {
	fs := flag.NewFlagSet("tag-write", flag.ExitOnError)
	id := fs.String("id", "", "Song ID")
	fs.Parse(args)

	song, err := findSong(lib, *id)
	if err != nil {
		return err
	}

	tagger := audio.NewTagger(nil)
	result, tagErr := tagger.WriteTags(song)
	for _, skipped := range result.Skipped {
		fmt.Printf("   Skipped (not mp3): %s\n", skipped)
	}
	if tagErr != nil {
		fmt.Printf("⚠️  Some files failed: %v\n", tagErr)
	}
	if len(result.Tagged) == 0 && tagErr != nil {
		return fmt.Errorf("no files tagged")
	}
	fmt.Printf("✅ Tagged %d file(s)\n", len(result.Tagged))
	return nil
}

func cmdDupes(settings *config.Settings, args []string) error {
	fs := flag.NewFlagSet("dupes", flag.ExitOnError)
	root := fs.String("root", "", "Folder to scan (default: the media folder)")
	fs.Parse(args)

	dir := *root
	if dir == "" {
		dir = filepath.Join(settings.DataDir, "media")
	}

	groups, err := media.FindDuplicateFiles(dir)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("No duplicate files.")
		return nil
	}

	digests := make([]string, 0, len(groups))
	for digest := range groups {
		digests = append(digests, digest)
	}
	sort.Slice(digests, func(i, j int) bool {
		return groups[digests[i]][0] < groups[digests[j]][0]
	})

	for _, digest := range digests {
		paths := groups[digest]
		fmt.Printf("%s (%d copies, %s each)\n",
			filepath.Base(paths[0]), len(paths), media.FileSizeHuman(paths[0]))
		for _, path := range paths {
			fmt.Printf("   %s\n", path)
		}
	}
	fmt.Printf("\n%d duplicate group(s)\n", len(groups))
	return nil
}

func cmdTidy(settings *config.Settings, args []string) error {
	fs := flag.NewFlagSet("tidy", flag.ExitOnError)
	root := fs.String("root", "", "Folder to clean (default: the media folder)")
	fs.Parse(args)

	dir := *root
	if dir == "" {
		dir = filepath.Join(settings.DataDir, "media")
	}

	deleted := media.CleanupEmptyDirs(dir)
	fmt.Printf("✅ Removed %d empty folder(s) under %s\n", deleted, dir)
	return nil
}

// findSong resolves the -id flag, requiring it to be present and known.
func findSong(lib *library.Library, id string) (*model.Song, error) {
	if id == "" {
		return nil, fmt.Errorf("missing -id (use \"partmate list\" to find it)")
	}
	song := lib.FindSongByID(id)
	if song == nil {
		return nil, fmt.Errorf("no song with id %s", id)
	}
	return song, nil
}

// urlPath returns the path component of a URL, for media type sniffing.
func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

func printSongs(songs []*model.Song) {
	if len(songs) == 0 {
		fmt.Println("No songs.")
		return
	}

	fmt.Printf("%-36s  %-22s %-26s %-14s %s\n", "ID", "ARTIST", "TITLE", "STYLE", "MEDIA")
	for _, song := range songs {
		fmt.Printf("%-36s  %-22s %-26s %-14s %s\n",
			song.ID,
			clip(song.Artist, 22),
			clip(song.Title, 26),
			clip(song.Style, 14),
			mediaSummary(song))
	}
	fmt.Printf("\n%d song(s)\n", len(songs))
}

// mediaSummary renders a compact per-type media count.
func mediaSummary(song *model.Song) string {
	return fmt.Sprintf("%dd/%da/%dv/%dl",
		len(song.Documents), len(song.Audios), len(song.Videos), len(song.Links))
}

// clip shortens a string to width runes, marking the cut.
func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
