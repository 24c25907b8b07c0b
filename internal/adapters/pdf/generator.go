// Package pdf renders a deputy report snapshot as a printable PDF document.
// Sections follow the wizard steps; empty optional lists are printed as dash
// rows so the reader can tell they were left blank on purpose.
package pdf

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csg33k/ldpr-reports/internal/catalog"
	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
)

const fontFamily = "report"

// Generator renders reports. Without a TrueType font the core Helvetica font
// is used, which cannot draw Cyrillic; production deployments set FontPath.
type Generator struct {
	FontPath string
	Catalog  *catalog.Catalog
}

var _ ports.ArtifactGenerator = (*Generator)(nil)

func New(fontPath string) *Generator {
	return &Generator{FontPath: fontPath, Catalog: catalog.Default()}
}

// Generate writes the report for s to w.
func (g *Generator) Generate(ctx context.Context, s *domain.Snapshot, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("{nb}")

	d := &doc{pdf: pdf, cat: g.Catalog, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if d.cat == nil {
		d.cat = catalog.Default()
	}
	if g.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", g.FontPath)
		pdf.AddUTF8Font(fontFamily, "B", g.FontPath)
		pdf.AddUTF8Font(fontFamily, "I", g.FontPath)
		d.family = fontFamily
		d.tr = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("load font %s: %w", g.FontPath, err)
	}

	pdf.SetFooterFunc(d.footer)
	pdf.AddPage()
	d.draw(s)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

type doc struct {
	pdf    *fpdf.Fpdf
	cat    *catalog.Catalog
	family string
	tr     func(string) string
}

func (d *doc) draw(s *domain.Snapshot) {
	g := &s.GeneralInfo
	d.title("Отчет депутата ЛДПР")

	// ── General information ──────────────────────────────────────────────────
	d.section(domain.StepGeneral)
	d.row("ФИО", g.FullName)
	d.row("Округ", g.District)
	d.row("Регион", g.Region)
	d.row("Уровень представительного органа", g.RepresentativeLevel)
	d.row("Наименование органа", g.AuthorityName)
	d.row("Срок полномочий", g.TermStart+" – "+g.TermEnd)
	d.row("Должность", g.Position)
	d.row("Должность в ЛДПР", g.LDPRPosition)

	// ── Activity and links ───────────────────────────────────────────────────
	d.section(domain.StepActivity)
	d.list("Ссылки", g.Links)
	d.list("Комитеты", g.Committees)
	a := g.SessionsAttended
	d.row("Заседания (посещено / всего)", a.Attended+" / "+a.Total)
	d.row("Заседания комитетов (посещено / всего)", a.CommitteeAttended+" / "+a.CommitteeTotal)
	d.row("Заседания фракции ЛДПР (посещено / всего)", a.LDPRAttended+" / "+a.LDPRTotal)

	// ── Legislation ──────────────────────────────────────────────────────────
	d.section(domain.StepLegislation)
	if len(s.Legislation) == 0 {
		d.empty()
	}
	for i, item := range s.Legislation {
		d.item(i, item.Title)
		d.row("Суть", item.Summary)
		d.row("Статус", item.Status)
		if item.Status == domain.StatusRejected {
			d.row("Причина отклонения", item.RejectionReason)
		}
		d.list("Ссылки", item.Links)
	}

	// ── Citizen requests ─────────────────────────────────────────────────────
	r := &s.CitizenRequests
	d.section(domain.StepStats)
	d.row("Личные приемы", r.PersonalMeetings)
	d.row("Ответы на обращения", r.Responses)
	d.row("Депутатские запросы", r.OfficialQueries)
	for _, t := range domain.Topics() {
		d.row(d.cat.TopicLabel(t), s.Value(domain.TopicField(t)))
	}
	for _, rc := range domain.Receptions() {
		held := "нет"
		if r.CitizenDayReceptions.Held(rc) {
			held = "да"
		}
		d.row(d.cat.ReceptionLabel(rc), held)
	}

	d.section(domain.StepExamples)
	if len(r.Examples) == 0 {
		d.empty()
	}
	for i, ex := range r.Examples {
		d.item(i, ex.Text)
		d.list("Ссылки", ex.Links)
	}

	// ── SVO support ──────────────────────────────────────────────────────────
	d.section(domain.StepSVO)
	if len(s.SVOSupport.Projects) == 0 {
		d.empty()
	}
	for i, p := range s.SVOSupport.Projects {
		d.item(i, p.Text)
		d.list("Ссылки", p.Links)
	}

	// ── Projects and orders ──────────────────────────────────────────────────
	d.section(domain.StepProjects)
	if len(s.ProjectActivity) == 0 {
		d.empty()
	}
	for i, p := range s.ProjectActivity {
		d.item(i, p.Name)
		d.row("Результат", p.Result)
	}

	d.section(domain.StepOrders)
	if len(s.LDPROrders) == 0 {
		d.empty()
	}
	for i, o := range s.LDPROrders {
		d.item(i, o.Instruction)
		d.row("Исполнение", o.Action)
	}

	d.section(domain.StepOther)
	d.text(s.OtherInfo)
}

// ── Drawing helpers ──────────────────────────────────────────────────────────

func (d *doc) contentWidth() float64 {
	pageW, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return pageW - left - right
}

func (d *doc) title(s string) {
	d.pdf.SetFillColor(30, 30, 30)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont(d.family, "B", 13)
	d.pdf.CellFormat(d.contentWidth(), 10, d.tr(s), "", 1, "C", true, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(3)
}

func (d *doc) section(step domain.Step) {
	d.pdf.Ln(2)
	d.pdf.SetFillColor(240, 240, 240)
	d.pdf.SetFont(d.family, "B", 10)
	label := fmt.Sprintf("%d. %s", int(step)+1, d.cat.StepTitle(step))
	d.pdf.CellFormat(d.contentWidth(), 7, d.tr(label), "B", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

func (d *doc) row(label, value string) {
	labelW := d.contentWidth() * 0.42
	d.pdf.SetFont(d.family, "", 9)
	x, y := d.pdf.GetXY()
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.MultiCell(labelW, 5, d.tr(label), "", "L", false)
	labelBottom := d.pdf.GetY()

	d.pdf.SetXY(x+labelW, y)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(d.contentWidth()-labelW, 5, d.tr(orDash(value)), "", "L", false)
	if d.pdf.GetY() < labelBottom {
		d.pdf.SetY(labelBottom)
	}
}

func (d *doc) item(i int, heading string) {
	d.pdf.SetFont(d.family, "B", 9)
	d.pdf.MultiCell(d.contentWidth(), 5.5, d.tr(fmt.Sprintf("%d) %s", i+1, orDash(heading))), "", "L", false)
}

func (d *doc) list(label string, values []string) {
	var kept []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	d.row(label, strings.Join(kept, "\n"))
}

func (d *doc) text(s string) {
	d.pdf.SetFont(d.family, "", 9)
	d.pdf.MultiCell(d.contentWidth(), 5, d.tr(orDash(s)), "", "L", false)
}

func (d *doc) empty() {
	d.pdf.SetFont(d.family, "I", 9)
	d.pdf.SetTextColor(130, 130, 130)
	d.pdf.CellFormat(d.contentWidth(), 5, d.tr("Не заполнено"), "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *doc) footer() {
	d.pdf.SetY(-12)
	d.pdf.SetFont(d.family, "I", 7.5)
	d.pdf.SetTextColor(130, 130, 130)
	d.pdf.CellFormat(0, 5, fmt.Sprintf("%d / {nb}", d.pdf.PageNo()), "", 0, "R", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
