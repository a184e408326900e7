package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"bookbuddy/internal/config"
	"bookbuddy/internal/util"
	"bookbuddy/internal/validate"
	"bookbuddy/pkg/apiclient"
	"bookbuddy/pkg/domain"
	"bookbuddy/pkg/session"
	"bookbuddy/pkg/storage"
	"bookbuddy/pkg/store"
	"bookbuddy/pkg/upload"
)

func main() {
	configPath := os.Getenv("BOOKBUDDY_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.InitLogger(cfg.LogLevel)

	var persister session.Persister
	switch cfg.SessionBackend {
	case "memory":
		persister = session.NewMemoryPersister()
	case "redis":
		persister = session.NewRedisPersister(cfg.RedisAddr, cfg.RedisPassword)
	default:
		persister, err = session.NewFilePersister(cfg.SessionFile)
		if err != nil {
			log.Fatalf("failed to init session storage: %v", err)
		}
	}

	sess := session.NewStore(session.Options{
		Persister: persister,
		RedirectToLogin: func() {
			fmt.Fprintln(os.Stderr, "signed out; run `bookbuddy login` to continue")
		},
	})
	client := apiclient.New(apiclient.Config{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout(),
		Tokens:         sess,
		OnUnauthorized: sess.Logout,
	})

	app := &app{
		sess:   sess,
		client: client,
		books:  store.NewBookStore(client, sess),
		blogs:  store.NewBlogStore(client),
		diary:  store.NewDiaryStore(client),
		cfg:    cfg,
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	sess   *session.Store
	client *apiclient.Client
	books  *store.BookStore
	blogs  *store.BlogStore
	diary  *store.DiaryStore
	cfg    config.FileConfig
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		a.sess.Logout()
		return nil
	case "whoami":
		return a.whoami()
	case "profile":
		return a.profile(ctx, args)
	case "avatar":
		return a.avatar(ctx, args)
	case "categories":
		return a.categories(ctx)
	case "books":
		return a.listBooks(ctx, args)
	case "search":
		return a.search(ctx, args)
	case "book":
		return a.bookDetails(ctx, args)
	case "upload":
		return a.upload(ctx, args)
	case "delete-book":
		return a.deleteBook(ctx, args)
	case "like":
		return a.like(ctx, args)
	case "my-uploads":
		return a.myUploads(ctx)
	case "liked":
		return a.liked(ctx)
	case "read":
		return a.read(ctx, args)
	case "blogs":
		return a.listBlogs(ctx)
	case "blog":
		return a.blogDetails(ctx, args)
	case "blog-create":
		return a.blogCreate(ctx, args)
	case "diary":
		return a.diaryList(ctx)
	case "diary-show":
		return a.diaryShow(ctx, args)
	case "diary-create":
		return a.diaryCreate(ctx, args)
	case "diary-delete":
		return a.diaryDelete(ctx, args)
	case "refresh":
		return a.refresh(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: bookbuddy login <email> <password>")
	}
	form := validate.Credentials{Email: args[0], Password: args[1]}
	if err := validate.Struct(form); err != nil {
		return err
	}
	user, token, err := a.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		return err
	}
	a.sess.Login(user, token)
	fmt.Printf("logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: bookbuddy register <name> <email> <password>")
	}
	form := validate.Registration{Name: args[0], Email: args[1], Password: args[2]}
	if err := validate.Struct(form); err != nil {
		return err
	}
	user, token, err := a.client.Register(ctx, form.Name, form.Email, form.Password)
	if err != nil {
		return err
	}
	a.sess.Login(user, token)
	fmt.Printf("welcome, %s\n", user.Name)
	return nil
}

func (a *app) whoami() error {
	cur := a.sess.Current()
	if !cur.IsAuthenticated {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", cur.User.Name, cur.User.Email, cur.User.Role)
	if exp, ok := a.sess.TokenExpiry(); ok {
		fmt.Printf("token expires %s\n", exp.Format(time.RFC3339))
	}
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: bookbuddy profile <name> <email>")
	}
	form := validate.ProfileForm{Name: args[0], Email: args[1]}
	if err := validate.Struct(form); err != nil {
		return err
	}
	user, err := a.client.UpdateProfile(ctx, form.Name, form.Email)
	if err != nil {
		return err
	}
	a.sess.SetUser(patchFromUser(user))
	fmt.Println("profile updated")
	return nil
}

func (a *app) avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy avatar <image-path>")
	}
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()
	ref, err := a.client.ChangeProfilePicture(ctx, filepath.Base(args[0]), "image/jpeg", file)
	if err != nil {
		return err
	}
	a.sess.SetUser(patchProfilePic(ref))
	fmt.Printf("profile picture updated: %s\n", ref.URL)
	return nil
}

func (a *app) categories(ctx context.Context) error {
	if err := a.books.FetchCategories(ctx); err != nil {
		return err
	}
	for _, c := range a.books.Categories() {
		fmt.Printf("%s  %s\n", c.ID, c.Name)
	}
	return nil
}

func (a *app) listBooks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("books", flag.ContinueOnError)
	category := fs.String("category", "", "category ID to filter by")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var err error
	if *category != "" {
		err = a.books.FetchByCategory(ctx, *category)
	} else {
		err = a.books.FetchAll(ctx)
	}
	if err != nil {
		return err
	}
	for _, b := range a.books.Books() {
		fmt.Printf("%s  %-30s %s (%d likes)\n", b.ID, b.Name, b.Author, len(b.Likes))
	}
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	category := fs.String("category", "", "category name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	results, err := a.books.Search(ctx, query, *category)
	if err != nil {
		return err
	}
	for _, b := range results {
		fmt.Printf("%s  %-30s %s\n", b.ID, b.Name, b.Author)
	}
	return nil
}

func (a *app) bookDetails(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy book <id>")
	}
	b, err := a.books.Details(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\nby %s\ncategory: %s\nrating: %.1f (%d)\nlikes: %d\n\n%s\n",
		b.Name, b.Author, b.Category.Name, b.AverageRating, b.TotalRatings, len(b.Likes), b.Description)
	return nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	name := fs.String("name", "", "book title")
	author := fs.String("author", "", "author")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "category ID")
	pdfPath := fs.String("pdf", "", "path to the PDF file")
	coverPath := fs.String("cover", "", "path to the cover image (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form := validate.BookUploadForm{Name: *name, CategoryID: *category, PDFPath: *pdfPath}
	if err := validate.Struct(form); err != nil {
		return err
	}
	info, err := upload.InspectPDF(*pdfPath)
	if err != nil {
		return err
	}
	slog.Info("uploading book", "pages", info.Pages, "size", info.SizeBytes)

	book, err := a.books.Upload(ctx, store.UploadRequest{
		Name:        *name,
		Author:      *author,
		Description: *desc,
		CategoryID:  *category,
		PDFPath:     *pdfPath,
		CoverPath:   *coverPath,
	})
	if err != nil {
		return err
	}
	fmt.Printf("uploaded %s (%s)\n", book.Name, book.ID)
	return nil
}

func (a *app) deleteBook(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy delete-book <id>")
	}
	return a.books.Delete(ctx, args[0])
}

func (a *app) like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy like <id>")
	}
	return a.books.ToggleLike(ctx, args[0])
}

func (a *app) myUploads(ctx context.Context) error {
	if err := a.books.FetchAll(ctx); err != nil {
		return err
	}
	for _, b := range a.books.MyUploads() {
		fmt.Printf("%s  %s\n", b.ID, b.Name)
	}
	return nil
}

func (a *app) liked(ctx context.Context) error {
	if err := a.books.FetchAll(ctx); err != nil {
		return err
	}
	for _, b := range a.books.LikedBooks() {
		fmt.Printf("%s  %s\n", b.ID, b.Name)
	}
	return nil
}

func (a *app) read(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy read <book-id>")
	}
	cache, err := storage.NewCache(a.cfg.CacheDir)
	if err != nil {
		return err
	}
	book, err := a.books.Details(ctx, args[0])
	if err != nil {
		return err
	}
	filename := path.Base(book.PDF.URL)
	if cached, ok := cache.Get(book.ID, filename); ok {
		fmt.Println(cached)
		return nil
	}
	body, err := a.client.Download(ctx, book.PDF.URL)
	if err != nil {
		return err
	}
	defer body.Close()
	saved, err := cache.Put(book.ID, filename, body)
	if err != nil {
		return err
	}
	fmt.Println(saved)
	return nil
}

func (a *app) listBlogs(ctx context.Context) error {
	if err := a.blogs.FetchAll(ctx); err != nil {
		return err
	}
	for _, b := range a.blogs.Blogs() {
		fmt.Printf("%s  %-40s %s\n", b.ID, b.Title, store.Preview(b, 60))
	}
	return nil
}

func (a *app) blogDetails(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy blog <id>")
	}
	b, err := a.blogs.Details(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n\n%s\n", b.Title, b.Description)
	return nil
}

func (a *app) blogCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("blog-create", flag.ContinueOnError)
	title := fs.String("title", "", "blog title")
	desc := fs.String("desc", "", "blog body")
	imagePath := fs.String("image", "", "header image (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form := validate.BlogForm{Title: *title, Description: *desc}
	if err := validate.Struct(form); err != nil {
		return err
	}
	var image *apiclient.FormFile
	if *imagePath != "" {
		file, err := os.Open(*imagePath)
		if err != nil {
			return err
		}
		defer file.Close()
		image = &apiclient.FormFile{Name: filepath.Base(*imagePath), ContentType: "image/jpeg", Reader: file}
	}
	blog, err := a.blogs.Create(ctx, *title, *desc, image)
	if err != nil {
		return err
	}
	fmt.Printf("created blog %s\n", blog.ID)
	return nil
}

func (a *app) diaryList(ctx context.Context) error {
	if err := a.diary.FetchAll(ctx); err != nil {
		return err
	}
	for _, n := range a.diary.Notes() {
		fmt.Printf("%s  %-30s %s\n", n.ID, n.Title, n.Mood)
	}
	return nil
}

func (a *app) diaryShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy diary-show <id>")
	}
	n, err := a.diary.Details(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n\n%s\n", n.Title, n.Mood, n.Entry)
	return nil
}

func (a *app) diaryCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diary-create", flag.ContinueOnError)
	title := fs.String("title", "", "note title")
	entry := fs.String("entry", "", "note body")
	mood := fs.String("mood", "", "mood (optional)")
	tags := fs.String("tags", "", "comma-separated tags (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form := validate.DiaryForm{Title: *title, Entry: *entry}
	if err := validate.Struct(form); err != nil {
		return err
	}
	payload := apiclient.NotePayload{
		Title: *title,
		Entry: *entry,
		Mood:  *mood,
		Date:  time.Now().UTC(),
	}
	if *tags != "" {
		for _, tag := range strings.Split(*tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				payload.Tags = append(payload.Tags, tag)
			}
		}
	}
	note, err := a.diary.Create(ctx, payload)
	if err != nil {
		return err
	}
	fmt.Printf("created note %s\n", note.ID)
	return nil
}

func (a *app) diaryDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookbuddy diary-delete <id>")
	}
	return a.diary.Delete(ctx, args[0])
}

// refresh warms all the list caches concurrently. Failures here are the
// background kind: logged, not fatal.
func (a *app) refresh(ctx context.Context) error {
	if err := store.Prefetch(ctx, a.books, a.blogs, a.diary); err != nil {
		slog.Error("refresh failed", "err", err)
	}
	fmt.Printf("books=%d blogs=%d notes=%d\n",
		len(a.books.Books()), len(a.blogs.Blogs()), len(a.diary.Notes()))
	return nil
}

func patchFromUser(u domain.User) domain.UserPatch {
	return domain.UserPatch{
		Name:       &u.Name,
		Email:      &u.Email,
		ProfilePic: &u.ProfilePic,
		Role:       &u.Role,
		Bio:        &u.Bio,
	}
}

func patchProfilePic(ref domain.FileRef) domain.UserPatch {
	return domain.UserPatch{ProfilePic: &ref}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bookbuddy <command> [args]

account:   login register logout whoami profile avatar
books:     categories books search book upload delete-book like my-uploads liked read
blogs:     blogs blog blog-create
diary:     diary diary-show diary-create diary-delete
misc:      refresh`)
}
