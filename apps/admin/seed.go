package main

import (
	"context"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

type demoLesson struct {
	title    string
	content  string
	videoURL string
	duration int
}

type demoModule struct {
	title       string
	description string
	lessons     []demoLesson
}

type demoCourse struct {
	title       string
	description string
	tags        []string
	topics      []string
	featured    bool
	modules     []demoModule
}

var demoCourses = []demoCourse{
	{
		title:       "Go for Backend Developers",
		description: "Build and ship production HTTP services in Go.",
		tags:        []string{"go", "backend"},
		topics:      []string{"programming"},
		featured:    true,
		modules: []demoModule{
			{
				title:       "Getting Started",
				description: "Tooling, modules and project layout.",
				lessons: []demoLesson{
					{title: "Installing the Toolchain", content: "Install Go and set up your editor.", duration: 10},
					{title: "Your First Module", content: "go mod init and the module path.", duration: 15},
				},
			},
			{
				title:       "HTTP Services",
				description: "Handlers, routing and middleware.",
				lessons: []demoLesson{
					{title: "Handlers & Muxes", content: "The http.Handler interface.", duration: 20},
					{title: "Middleware", content: "Composing handlers.", duration: 25},
				},
			},
		},
	},
	{
		title:       "Practical SQL",
		description: "Relational modeling and queries for application developers.",
		tags:        []string{"sql", "postgres"},
		topics:      []string{"databases"},
		modules: []demoModule{
			{
				title:       "Foundations",
				description: "Tables, keys and constraints.",
				lessons: []demoLesson{
					{title: "Modeling Data", content: "Normal forms in practice.", duration: 30},
					{title: "Joins", content: "Inner, outer and lateral joins.", duration: 35},
				},
			},
		},
	},
}

// seed loads demo content for local development. Existing courses
// (matched by slug) are left untouched.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	crsSvc := course.NewService(cli.crsRepo)

	author, err := cli.seedAuthor(ctx)
	if err != nil {
		return err
	}

	for _, dc := range demoCourses {
		nc := course.NewCourse{
			Title:       dc.title,
			Description: dc.description,
			Tags:        dc.tags,
			Topics:      dc.topics,
			IsFeatured:  dc.featured,
		}
		if err := nc.Validate(ctx, crsSvc); err != nil {
			if _, ok := err.(*core.ValidationError); ok { // slug taken
				logger.Printf("course %q already seeded; skipping", dc.title)
				continue
			}
			return err
		}
		crs, err := crsSvc.CreateCourse(ctx, nc, author.ID)
		if err != nil {
			return err
		}

		for _, dm := range dc.modules {
			mod, err := crsSvc.CreateModule(ctx, course.NewModule{
				CourseID:    crs.ID,
				Title:       dm.title,
				Description: dm.description,
			})
			if err != nil {
				return err
			}
			for _, dl := range dm.lessons {
				nl := course.NewLesson{
					ModuleID:     mod.ID,
					Title:        dl.title,
					Content:      dl.content,
					VideoURL:     dl.videoURL,
					DurationMins: dl.duration,
					IsPublished:  true,
				}
				if err := nl.Validate(ctx, crsSvc); err != nil {
					return err
				}
				if _, err := crsSvc.CreateLesson(ctx, nl); err != nil {
					return err
				}
			}
		}

		if _, err := crsSvc.PublishCourse(ctx, crs.ID); err != nil {
			return err
		}
		logger.Printf("seeded course %q", crs.Title)
	}
	return nil
}

func (cli *commandLine) seedAuthor(ctx context.Context) (user.User, error) {
	usr, err := cli.usrRepo.GetUserByUsername(ctx, "demo-teacher")
	if err == nil {
		return usr, nil
	}
	if err != user.ErrNotFound {
		return user.User{}, err
	}

	usr = user.User{
		Name:     "Demo Teacher",
		Username: "demo-teacher",
		Email:    "demo-teacher@darasa.local",
		Roles:    []string{user.RoleTeacher},
	}
	active := true
	usr.IsActive = &active
	if err := usr.SetPassword("demo-teacher"); err != nil {
		return user.User{}, err
	}
	return cli.usrRepo.CreateUser(ctx, usr)
}
