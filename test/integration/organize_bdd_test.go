//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/desk_org/internal/config"
	"github.com/eliteGoblin/focusd/desk_org/internal/daemon"
	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
	"github.com/eliteGoblin/focusd/desk_org/internal/usecase"
	"github.com/eliteGoblin/focusd/desk_org/test/fixtures"
)

var _ = Describe("Desktop organizer", func() {
	var (
		tmpDir   string
		desktop  *fixtures.FakeDesktop
		notifier *infra.ChannelNotifier
		ws       *usecase.Workspace
	)

	newWorkspace := func(table *rules.Table) *usecase.Workspace {
		logger := zap.NewNop()
		organizer := usecase.NewOrganizer(infra.NewFileSystemManager(), infra.NewMover(logger), logger)
		return usecase.NewWorkspace(desktop.Dir, table, organizer, logger,
			usecase.WithNotifier(notifier),
			usecase.WithPassGate(infra.NewPassLock(filepath.Join(tmpDir, "locks"), logger)))
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "deskorg-integration-*")
		Expect(err).NotTo(HaveOccurred())

		desktop = fixtures.NewFakeDesktop(filepath.Join(tmpDir, "Desktop"))
		Expect(os.MkdirAll(desktop.Dir, 0755)).To(Succeed())
		notifier = infra.NewChannelNotifier(8, zap.NewNop())
		ws = newWorkspace(rules.DefaultTable())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("a manual pass", func() {
		Context("with a cluttered desktop and an existing category folder", func() {
			BeforeEach(func() {
				Expect(desktop.Create(
					[]string{"photo.JPG", "notes.md", "archive.zip", "unknown.xyz", "图片/old.png"},
				)).To(Succeed())
			})

			It("should sort every loose file into its category folder", func() {
				summary, err := ws.RunPass(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(summary.FilesMoved).To(Equal(4))
				Expect(summary.Failures).To(BeEmpty())

				Expect(desktop.Has("图片/photo.JPG")).To(BeTrue())
				Expect(desktop.Has("文档/notes.md")).To(BeTrue())
				Expect(desktop.Has("压缩文件/archive.zip")).To(BeTrue())
				Expect(desktop.Has(domain.UnclassifiedDir + "/unknown.xyz")).To(BeTrue())
				Expect(desktop.Entries("图片")).To(Equal([]string{"old.png", "photo.JPG"}))
				Expect(desktop.LooseFiles()).To(BeEmpty())
			})

			It("should notify with the pass digest", func() {
				summary, err := ws.RunPass(context.Background())
				Expect(err).NotTo(HaveOccurred())

				var note domain.Notification
				Eventually(notifier.C()).Should(Receive(&note))
				Expect(note.PassID).To(Equal(summary.PassID))
				Expect(note.FilesMoved).To(Equal(4))
			})

			It("should do nothing on a second pass", func() {
				_, err := ws.RunPass(context.Background())
				Expect(err).NotTo(HaveOccurred())

				summary, err := ws.RunPass(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(summary.FilesMoved).To(BeZero())
			})
		})

		Context("when the destination name is taken", func() {
			It("should keep both files with a numeric suffix", func() {
				Expect(desktop.Create([]string{"文档/report.pdf", "文档/report_1.pdf"})).To(Succeed())
				Expect(os.WriteFile(filepath.Join(desktop.Dir, "report.pdf"), []byte("newest"), 0644)).To(Succeed())

				_, err := ws.RunPass(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(desktop.Content("文档/report.pdf")).To(Equal("文档/report.pdf"))
				Expect(desktop.Content("文档/report_2.pdf")).To(Equal("newest"))
			})
		})

		Context("when the monitor directory is gone", func() {
			It("should fail without creating anything", func() {
				Expect(os.RemoveAll(desktop.Dir)).To(Succeed())

				_, err := ws.RunPass(context.Background())
				Expect(err).To(MatchError(domain.ErrInvalidScanTarget))
				_, statErr := os.Stat(desktop.Dir)
				Expect(os.IsNotExist(statErr)).To(BeTrue())
			})
		})
	})

	Describe("rules from a legacy settings file", func() {
		It("should classify in file order", func() {
			settings := filepath.Join(tmpDir, "settings.json")
			Expect(os.WriteFile(settings, []byte(`{
				"monitor_dir": "`+desktop.Dir+`",
				"file_mappings": {"Scans": [".pdf"], "文档": [".pdf", ".md"]},
				"auto_organize": true,
				"check_interval": 5
			}`), 0644)).To(Succeed())

			cfg, err := config.Load(settings)
			Expect(err).NotTo(HaveOccurred())
			table, err := cfg.RuleTable()
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Conflicts()).To(HaveLen(1))

			ws = newWorkspace(table)
			Expect(desktop.Create([]string{"scan.pdf", "notes.md"})).To(Succeed())

			_, err = ws.RunPass(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(desktop.Has("Scans/scan.pdf")).To(BeTrue())
			Expect(desktop.Has("文档/notes.md")).To(BeTrue())
		})
	})

	Describe("the background scheduler", func() {
		var scheduler *daemon.Scheduler

		BeforeEach(func() {
			scheduler = daemon.NewScheduler(ws, zap.NewNop())
		})

		AfterEach(func() {
			scheduler.Stop()
		})

		It("should organize files dropped while running", func() {
			Expect(scheduler.Start(1)).To(Succeed())
			Expect(desktop.Drop("later.mp4")).To(Succeed())

			Eventually(func() bool { return desktop.Has("视频/later.mp4") }, 5*time.Second, 50*time.Millisecond).
				Should(BeTrue())
		})

		It("should stop promptly during a long wait", func() {
			Expect(scheduler.Start(3600)).To(Succeed())
			Eventually(notifier.C()).Should(Receive())

			start := time.Now()
			scheduler.Stop()
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
			Expect(scheduler.IsRunning()).To(BeFalse())
		})

		It("should serialize manual passes with the loop", func() {
			Expect(desktop.Create([]string{"a.txt", "b.txt", "c.txt"})).To(Succeed())
			Expect(scheduler.Start(1)).To(Succeed())

			total := 0
			for i := 0; i < 5; i++ {
				summary, err := scheduler.RunNow(context.Background())
				Expect(err).NotTo(HaveOccurred())
				total += summary.FilesMoved
			}
			scheduler.Stop()

			Expect(desktop.Entries("文档")).To(Equal([]string{"a.txt", "b.txt", "c.txt"}))
			Expect(total).To(BeNumerically("<=", 3))
		})
	})
})
