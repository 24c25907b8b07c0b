package handlers

import (
	"html/template"
	"strings"

	"github.com/csg33k/ldpr-reports/internal/catalog"
	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/validation"
	"github.com/csg33k/ldpr-reports/internal/wizard"
)

// pageData is what every wizard template renders from.
type pageData struct {
	View           wizard.View
	UserID         int64
	DownloadTicket string
	// OOB marks the stepper and banner for out-of-band swapping.
	OOB bool
	cat *catalog.Catalog
}

type fieldView struct {
	Label string
	Path  string
	Value string
	Error string
}

func (f fieldView) ID() string    { return "f-" + strings.ReplaceAll(f.Path, ".", "-") }
func (f fieldView) ErrID() string { return f.ID() + "-err" }

type linkView struct {
	Value string
	Error string
}

type linksView struct {
	Owner string
	Index int
	Links []linkView
}

type receptionView struct {
	Key   string
	Label string
	Held  bool
}

func (d pageData) Field(label, path string) fieldView {
	fv := fieldView{Label: label, Path: path}
	if f, err := domain.ParseField(path); err == nil {
		fv.Value = d.View.Snapshot.Value(f)
		fv.Error = d.View.Error(f)
	}
	return fv
}

// StepFields lists the validated fields of the current step, for refreshing
// their error slots.
func (d pageData) StepFields() []fieldView {
	var out []fieldView
	for _, f := range validation.StepFields(d.View.Step, d.View.Snapshot) {
		out = append(out, fieldView{Path: f.Path(), Error: d.View.Error(f)})
	}
	return out
}

func (d pageData) Topics() []fieldView {
	var out []fieldView
	for _, t := range domain.Topics() {
		out = append(out, d.Field(d.cat.TopicLabel(t), domain.TopicField(t).Path()))
	}
	return out
}

func (d pageData) Receptions() []receptionView {
	var out []receptionView
	for _, r := range domain.Receptions() {
		out = append(out, receptionView{
			Key:   r.Key(),
			Label: d.cat.ReceptionLabel(r),
			Held:  d.View.Snapshot.CitizenRequests.CitizenDayReceptions.Held(r),
		})
	}
	return out
}

func (d pageData) Links(owner string, index int) linksView {
	lv := linksView{Owner: owner, Index: index}
	o := domain.LinkOwner{Kind: linkOwners[owner], Index: index}
	errs := d.View.LinkErrors(o)
	for i, l := range d.View.Snapshot.Links(o) {
		lv.Links = append(lv.Links, linkView{Value: l, Error: errs[i]})
	}
	return lv
}

func (d pageData) StepTitle(s domain.Step) string { return d.cat.StepTitle(s) }
func (d pageData) Current() string                { return d.View.Step.ID() }
func (d pageData) StepNo() int                    { return int(d.View.Step) + 1 }
func (d pageData) StepCount() int                 { return domain.StepCount }
func (d pageData) Last() bool                     { return d.View.Step == domain.StepOther }
func (d pageData) Statuses() []string             { return d.cat.LegislationStatuses }
func (d pageData) Levels() []string               { return d.cat.RepresentativeLevels }
func (d pageData) Regions() []string              { return d.cat.Regions }
func (d pageData) Rejected() string               { return domain.StatusRejected }

// BannerDelay is the htmx delay after which the banner dismisses itself.
func (d pageData) BannerDelay() string {
	if d.View.Banner == nil {
		return "0s"
	}
	return d.View.Banner.TTL().String()
}

var pages = template.Must(template.New("pages").Parse(`
{{define "page"}}<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Отчёт депутата ЛДПР</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=IBM+Plex+Mono:wght@400;500;600&family=IBM+Plex+Sans:wght@300;400;500;600&display=swap" rel="stylesheet">
<script src="https://cdn.tailwindcss.com"></script>
<style>
  :root {
    --ink: #0d1117;
    --paper: #f5f7fb;
    --ledger: #dfe6f2;
    --accent: #c0392b;
    --accent2: #2c6e49;
    --brand: #1f4fa3;
    --muted: #5b6475;
    --rule: #b8c2d4;
  }
  * { box-sizing: border-box; }
  body {
    background: var(--paper);
    color: var(--ink);
    font-family: 'IBM Plex Sans', sans-serif;
    min-height: 100vh;
  }
  .mono { font-family: 'IBM Plex Mono', monospace; }
  .card {
    background: white;
    border: 1px solid var(--ledger);
    border-left: 4px solid var(--brand);
    padding: 24px;
  }
  .field { margin-bottom: 14px; }
  .field-label {
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.65rem;
    font-weight: 600;
    letter-spacing: 0.08em;
    text-transform: uppercase;
    color: var(--muted);
    display: block;
    margin-bottom: 2px;
  }
  input, select, textarea {
    background: white;
    border: 1px solid var(--rule);
    border-bottom: 2px solid var(--ink);
    padding: 6px 8px;
    font-size: 0.9rem;
    width: 100%;
    outline: none;
    transition: border-color 0.15s;
  }
  input[type=checkbox] { width: auto; }
  input:focus, select:focus, textarea:focus { border-bottom-color: var(--brand); }
  .err { display: block; min-height: 1em; color: var(--accent); font-size: 0.75rem; }
  .btn {
    font-family: 'IBM Plex Mono', monospace;
    font-weight: 600;
    font-size: 0.8rem;
    letter-spacing: 0.06em;
    padding: 8px 18px;
    border: 2px solid var(--ink);
    cursor: pointer;
    transition: all 0.15s;
    text-transform: uppercase;
  }
  .btn-primary { background: var(--brand); border-color: var(--brand); color: white; }
  .btn-primary:hover { filter: brightness(1.1); }
  .btn-plain { background: white; color: var(--ink); }
  .btn-danger { background: white; color: var(--accent); border-color: var(--accent); }
  .btn-danger:hover { background: var(--accent); color: white; }
  .btn-success { background: var(--accent2); color: white; border-color: var(--accent2); }
  .btn[disabled] { opacity: 0.5; cursor: default; }
  .section-header {
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.7rem;
    font-weight: 600;
    letter-spacing: 0.18em;
    text-transform: uppercase;
    color: var(--muted);
    border-bottom: 1px solid var(--rule);
    padding-bottom: 4px;
    margin-bottom: 16px;
  }
  .item { border: 1px solid var(--ledger); padding: 14px; margin-bottom: 12px; }
  .stepper { display: flex; flex-wrap: wrap; gap: 6px; margin-bottom: 24px; }
  .step {
    font-family: 'IBM Plex Mono', monospace;
    font-size: 0.7rem;
    padding: 6px 10px;
    border: 1px solid var(--rule);
    background: white;
    cursor: pointer;
  }
  .step-current { border-color: var(--brand); border-width: 2px; }
  .step-error { color: var(--accent); border-color: var(--accent); }
  .step-success { color: var(--accent2); border-color: var(--accent2); }
  .banner { padding: 10px 14px; margin-bottom: 16px; font-size: 0.85rem; }
  .banner-success { background: #e3f3ea; border-left: 4px solid var(--accent2); }
  .banner-error { background: #fbe7e5; border-left: 4px solid var(--accent); }
  .grid2 { display: grid; grid-template-columns: 1fr 1fr; gap: 4px 16px; }
  .htmx-indicator { opacity: 0; transition: opacity 0.2s; }
  .htmx-request .htmx-indicator, .htmx-request.htmx-indicator { opacity: 1; }
</style>
</head>
<body hx-headers='{"X-User-ID": "{{.UserID}}"}'>
<div style="max-width:960px;margin:0 auto;padding:32px 24px;">

<div style="margin-bottom:24px;">
  <div class="mono" style="font-size:0.65rem;letter-spacing:0.2em;color:var(--muted);margin-bottom:4px;">
    ЛИБЕРАЛЬНО-ДЕМОКРАТИЧЕСКАЯ ПАРТИЯ РОССИИ
  </div>
  <h1 class="mono" style="font-size:1.5rem;font-weight:600;margin:0;">Отчёт депутата</h1>
</div>

{{template "wizard" .}}

</div>
</body>
</html>
{{end}}

{{define "stepper"}}
<nav id="stepper" class="stepper"{{if .OOB}} hx-swap-oob="true"{{end}}>
  {{range $i, $s := .View.Steps}}
  <button type="button" class="step step-{{$s.Status}}{{if $s.Current}} step-current{{end}}"
    hx-post="/wizard/step/{{$i}}" hx-target="#wizard" hx-swap="outerHTML">{{$.StepTitle $s.Step}}</button>
  {{end}}
</nav>
{{end}}

{{define "banner"}}
<div id="banner"{{if .OOB}} hx-swap-oob="true"{{end}}>
  {{with .View.Banner}}
  <div class="banner banner-{{.Kind}}"
    hx-delete="/wizard/banner" hx-trigger="load delay:{{$.BannerDelay}}, click" hx-target="#banner" hx-swap="innerHTML">
    {{.Message}}
  </div>
  {{end}}
</div>
{{end}}

{{define "input"}}
<div class="field" hx-post="/wizard/blur" hx-trigger="focusout" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <label class="field-label" for="{{.ID}}">{{.Label}}</label>
  <input id="{{.ID}}" type="text" name="value" value="{{.Value}}"
    hx-post="/wizard/field" hx-trigger="input changed" hx-sync="this:queue all" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <span id="{{.ErrID}}" class="err">{{.Error}}</span>
</div>
{{end}}

{{define "number"}}
<div class="field" hx-post="/wizard/blur" hx-trigger="focusout" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <label class="field-label" for="{{.ID}}">{{.Label}}</label>
  <input id="{{.ID}}" type="text" inputmode="numeric" name="value" value="{{.Value}}"
    hx-post="/wizard/field" hx-trigger="input changed" hx-sync="this:queue all" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <span id="{{.ErrID}}" class="err">{{.Error}}</span>
</div>
{{end}}

{{define "textarea"}}
<div class="field" hx-post="/wizard/blur" hx-trigger="focusout" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <label class="field-label" for="{{.ID}}">{{.Label}}</label>
  <textarea id="{{.ID}}" name="value" rows="4" style="resize:vertical;"
    hx-post="/wizard/field" hx-trigger="input changed" hx-sync="this:queue all" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">{{.Value}}</textarea>
  <span id="{{.ErrID}}" class="err">{{.Error}}</span>
</div>
{{end}}

{{define "links"}}
<form class="field" hx-post="/wizard/links" hx-trigger="change" hx-target="#wizard" hx-swap="outerHTML">
  <span class="field-label">Ссылки</span>
  <input type="hidden" name="owner" value="{{.Owner}}">
  <input type="hidden" name="index" value="{{.Index}}">
  {{range $i, $l := .Links}}
  <div style="display:flex;gap:8px;align-items:center;">
    <input type="text" name="link" value="{{$l.Value}}" placeholder="https://">
    <button type="button" class="btn btn-danger" style="padding:4px 10px;"
      hx-post="/wizard/links" hx-include="closest form" hx-vals='{"op": "remove", "at": "{{$i}}"}' hx-target="#wizard" hx-swap="outerHTML">✕</button>
  </div>
  <span class="err">{{$l.Error}}</span>
  {{end}}
  <button type="button" class="btn btn-plain" style="padding:4px 10px;"
    hx-post="/wizard/links" hx-include="closest form" hx-vals='{"op": "add"}' hx-target="#wizard" hx-swap="outerHTML">+ Ссылка</button>
</form>
{{end}}

{{define "add"}}
<button type="button" class="btn btn-plain" hx-post="/wizard/items/{{.}}" hx-target="#wizard" hx-swap="outerHTML">+ Добавить</button>
{{end}}

{{define "remove"}}
<button type="button" class="btn btn-danger" style="padding:4px 10px;float:right;"
  hx-delete="/wizard/items/{{.}}" hx-target="#wizard" hx-swap="outerHTML">Удалить</button>
{{end}}

{{define "step-general"}}
{{template "input" (.Field "ФИО" "general_info.full_name")}}
{{template "input" (.Field "Избирательный округ" "general_info.district")}}
{{with .Field "Регион" "general_info.region"}}
<div class="field" hx-post="/wizard/blur" hx-trigger="focusout" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <label class="field-label" for="{{.ID}}">{{.Label}}</label>
  <input id="{{.ID}}" type="text" name="value" value="{{.Value}}" list="regions"
    hx-post="/wizard/field" hx-trigger="input changed" hx-sync="this:queue all" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <span id="{{.ErrID}}" class="err">{{.Error}}</span>
</div>
{{end}}
<datalist id="regions">{{range .Regions}}<option value="{{.}}">{{end}}</datalist>
{{with .Field "Уровень представительного органа" "general_info.representative_level"}}
<div class="field" hx-post="/wizard/blur" hx-trigger="focusout" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
  <label class="field-label" for="{{.ID}}">{{.Label}}</label>
  <select id="{{.ID}}" name="value" hx-post="/wizard/field" hx-trigger="change" hx-vals='{"path": "{{.Path}}"}' hx-swap="none">
    <option value="">Выберите уровень</option>
    {{$v := .Value}}{{range $.Levels}}<option value="{{.}}"{{if eq . $v}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <span id="{{.ErrID}}" class="err">{{.Error}}</span>
</div>
{{end}}
{{template "input" (.Field "Наименование представительного органа" "general_info.authority_name")}}
<div class="grid2">
  {{template "input" (.Field "Начало полномочий (ДД.ММ.ГГГГ)" "general_info.term_start")}}
  {{template "input" (.Field "Окончание полномочий (ДД.ММ.ГГГГ)" "general_info.term_end")}}
</div>
{{template "input" (.Field "Должность в представительном органе" "general_info.position")}}
{{template "input" (.Field "Должность в ЛДПР" "general_info.ldpr_position")}}
{{end}}

{{define "step-activity_links"}}
<div class="section-header">Посещаемость</div>
<div class="grid2">
  {{template "number" (.Field "Всего заседаний" "general_info.sessions_attended.total")}}
  {{template "number" (.Field "Посещено заседаний" "general_info.sessions_attended.attended")}}
  {{template "number" (.Field "Всего заседаний комитетов" "general_info.sessions_attended.committee_total")}}
  {{template "number" (.Field "Посещено заседаний комитетов" "general_info.sessions_attended.committee_attended")}}
  {{template "number" (.Field "Всего мероприятий ЛДПР" "general_info.sessions_attended.ldpr_total")}}
  {{template "number" (.Field "Посещено мероприятий ЛДПР" "general_info.sessions_attended.ldpr_attended")}}
</div>
<div class="section-header" style="margin-top:16px;">Комитеты</div>
{{range $i, $c := .View.Snapshot.GeneralInfo.Committees}}
<div class="item">
  {{template "remove" (printf "committees/%d" $i)}}
  {{template "input" ($.Field "Комитет" (printf "general_info.committees.%d" $i))}}
</div>
{{end}}
{{template "add" "committees"}}
<div class="section-header" style="margin-top:16px;">Страницы в сети</div>
{{template "links" (.Links "profile" 0)}}
{{end}}

{{define "step-legislation"}}
{{range $i, $it := .View.Snapshot.Legislation}}
<div class="item">
  {{template "remove" (printf "legislation/%d" $i)}}
  {{template "input" ($.Field "Название" (printf "legislation.%d.title" $i))}}
  {{template "textarea" ($.Field "Краткое описание" (printf "legislation.%d.summary" $i))}}
  {{with $.Field "Статус" (printf "legislation.%d.status" $i)}}
  <div class="field">
    <label class="field-label" for="{{.ID}}">{{.Label}}</label>
    <select id="{{.ID}}" name="value" hx-post="/wizard/field" hx-trigger="change" hx-vals='{"path": "{{.Path}}", "render": "wizard"}' hx-target="#wizard" hx-swap="outerHTML">
      <option value="">Выберите статус</option>
      {{$v := .Value}}{{range $.Statuses}}<option value="{{.}}"{{if eq . $v}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <span id="{{.ErrID}}" class="err">{{.Error}}</span>
  </div>
  {{end}}
  {{if eq $it.Status $.Rejected}}
  {{template "textarea" ($.Field "Причина отклонения" (printf "legislation.%d.rejection_reason" $i))}}
  {{end}}
  {{template "links" ($.Links "legislation" $i)}}
</div>
{{end}}
{{template "add" "legislation"}}
{{end}}

{{define "step-stats"}}
<div class="grid2">
  {{template "number" (.Field "Личные приёмы" "citizen_requests.personal_meetings")}}
  {{template "number" (.Field "Ответы на обращения" "citizen_requests.responses")}}
  {{template "number" (.Field "Депутатские запросы" "citizen_requests.official_queries")}}
</div>
<div class="section-header" style="margin-top:16px;">Обращения по темам</div>
<div class="grid2">
  {{range .Topics}}{{template "number" .}}{{end}}
</div>
<div class="section-header" style="margin-top:16px;">Единые дни приёма граждан</div>
{{range .Receptions}}
<label style="display:flex;gap:8px;align-items:center;margin-bottom:6px;">
  <input type="checkbox" name="held"{{if .Held}} checked{{end}}
    hx-post="/wizard/reception" hx-trigger="change" hx-vals='{"key": "{{.Key}}"}' hx-swap="none">
  {{.Label}}
</label>
{{end}}
{{end}}

{{define "step-examples"}}
{{range $i, $it := .View.Snapshot.CitizenRequests.Examples}}
<div class="item">
  {{template "remove" (printf "examples/%d" $i)}}
  {{template "textarea" ($.Field "Описание обращения" (printf "citizen_requests.examples.%d.text" $i))}}
  {{template "links" ($.Links "example" $i)}}
</div>
{{end}}
{{template "add" "examples"}}
{{end}}

{{define "step-svo"}}
{{range $i, $it := .View.Snapshot.SVOSupport.Projects}}
<div class="item">
  {{template "remove" (printf "svo_projects/%d" $i)}}
  {{template "textarea" ($.Field "Описание проекта" (printf "svo_support.projects.%d.text" $i))}}
  {{template "links" ($.Links "svo" $i)}}
</div>
{{end}}
{{template "add" "svo_projects"}}
{{end}}

{{define "step-projects"}}
{{range $i, $it := .View.Snapshot.ProjectActivity}}
<div class="item">
  {{template "remove" (printf "projects/%d" $i)}}
  {{template "input" ($.Field "Наименование" (printf "project_activity.%d.name" $i))}}
  {{template "textarea" ($.Field "Результат" (printf "project_activity.%d.result" $i))}}
</div>
{{end}}
{{template "add" "projects"}}
{{end}}

{{define "step-orders"}}
{{range $i, $it := .View.Snapshot.LDPROrders}}
<div class="item">
  {{template "remove" (printf "orders/%d" $i)}}
  {{template "textarea" ($.Field "Поручение" (printf "ldpr_orders.%d.instruction" $i))}}
  {{template "textarea" ($.Field "Проделанная работа" (printf "ldpr_orders.%d.action" $i))}}
</div>
{{end}}
{{template "add" "orders"}}
{{end}}

{{define "step-other"}}
{{template "textarea" (.Field "Иная информация" "other_info")}}
{{end}}

{{define "done"}}
<div class="card">
  <div class="section-header">Отчёт отправлен</div>
  <p style="margin-bottom:16px;">Отчёт сформирован. PDF можно скачать повторно.</p>
  <div style="display:flex;gap:8px;flex-wrap:wrap;">
    <button type="button" class="btn btn-success" hx-post="/wizard/download" hx-target="#wizard" hx-swap="outerHTML"
      {{if .View.Downloading}}disabled{{end}}>Скачать PDF</button>
    <button type="button" class="btn btn-plain" hx-post="/wizard/edit" hx-target="#wizard" hx-swap="outerHTML"
      {{if .View.Submitting}}disabled{{end}}>Редактировать</button>
    <button type="button" class="btn btn-danger" hx-post="/wizard/clear" hx-target="#wizard" hx-swap="outerHTML"
      hx-confirm="Очистить форму и начать новый отчёт?" {{if .View.Submitting}}disabled{{end}}>Новый отчёт</button>
  </div>
</div>
{{end}}

{{define "wizard"}}
<div id="wizard">
{{template "banner" .}}
{{if .View.Submitted}}
{{template "done" .}}
{{else}}
{{template "stepper" .}}
<div class="card">
  <div class="section-header">Шаг {{.StepNo}} из {{.StepCount}} · {{.StepTitle .View.Step}}</div>
  {{if eq .Current "general"}}{{template "step-general" .}}
  {{else if eq .Current "activity_links"}}{{template "step-activity_links" .}}
  {{else if eq .Current "legislation"}}{{template "step-legislation" .}}
  {{else if eq .Current "stats"}}{{template "step-stats" .}}
  {{else if eq .Current "examples"}}{{template "step-examples" .}}
  {{else if eq .Current "svo"}}{{template "step-svo" .}}
  {{else if eq .Current "projects"}}{{template "step-projects" .}}
  {{else if eq .Current "orders"}}{{template "step-orders" .}}
  {{else}}{{template "step-other" .}}{{end}}

  <div style="margin-top:24px;display:flex;justify-content:space-between;gap:8px;">
    <div style="display:flex;gap:8px;">
      {{if gt .StepNo 1}}<button type="button" class="btn btn-plain" hx-post="/wizard/back" hx-target="#wizard" hx-swap="outerHTML">← Назад</button>{{end}}
      <button type="button" class="btn btn-danger" hx-post="/wizard/clear" hx-target="#wizard" hx-swap="outerHTML"
        hx-confirm="Очистить все поля формы?" {{if .View.Submitting}}disabled{{end}}>Очистить</button>
    </div>
    {{if .Last}}
    <button type="button" class="btn btn-primary" hx-post="/wizard/submit" hx-target="#wizard" hx-swap="outerHTML"
      hx-disabled-elt="#wizard button" {{if .View.Submitting}}disabled{{end}}>
      Отправить <span class="htmx-indicator">…</span>
    </button>
    {{else}}
    <button type="button" class="btn btn-primary" hx-post="/wizard/next" hx-target="#wizard" hx-swap="outerHTML">Далее →</button>
    {{end}}
  </div>
</div>
{{end}}
{{if .DownloadTicket}}<iframe src="/wizard/download/{{.DownloadTicket}}" style="display:none"></iframe>{{end}}
</div>
{{end}}

{{define "update"}}
{{template "stepper" .}}
{{template "banner" .}}
{{range .StepFields}}<span id="{{.ErrID}}" class="err" hx-swap-oob="true">{{.Error}}</span>
{{end}}
{{end}}
`))
