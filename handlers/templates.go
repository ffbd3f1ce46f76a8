package handlers

import "html/template"

// Admin pages are server-rendered through html/template so every
// user-controlled field (titles, usernames, messages) is escaped at its
// injection point. Article content edited in the textarea round-trips
// through entity escaping unchanged.
var pageTemplates = template.Must(template.New("pages").Parse(pageTemplateText))

const pageTemplateText = `
{{define "layout_head"}}
<!DOCTYPE html>
<html>
<head>
    <title>{{.PageTitle}} - 天空之城后台</title>
    <meta charset="utf-8">
    <style>
        body { font-family: -apple-system, sans-serif; background: #f0ebe2; display: flex; justify-content: center; padding-top: 40px; min-height: 100vh; margin:0; color: #2c2420; }
        .container { width: 100%; max-width: 1000px; padding: 0 20px; }
        .card { background: rgba(255,255,255,0.95); padding: 30px; border-radius: 4px; box-shadow: 0 4px 20px rgba(44,36,32,0.08); border: 1px solid rgba(44,36,32,0.1); margin-bottom: 20px; }
        h1 { margin-top: 0; color: #2c2420; font-weight: normal; letter-spacing: 0.1em; border-bottom: 1px solid #eee; padding-bottom: 15px; }
        input, textarea { width: 100%; padding: 10px; margin: 8px 0 15px; border: 1px solid #dcd3c1; border-radius: 3px; box-sizing: border-box; font-family: inherit; }
        button { background: #4a7c6f; color: white; padding: 10px 20px; border: none; border-radius: 3px; font-size: 14px; cursor: pointer; transition: background 0.3s; }
        button:hover { background: #3a6358; }
        .link { color: #6b5f52; text-decoration: none; font-size: 14px; margin-right: 15px; }
        .link:hover { color: #b06840; }
        .error { background: #ffebee; color: #c62828; padding: 10px; border-radius: 4px; margin-bottom: 20px; text-align: center; }
        .success { background: #e8f5e9; color: #2e7d32; padding: 10px; border-radius: 4px; margin-bottom: 20px; text-align: center; }
        .warning { background: #fff8e1; color: #8d6e08; padding: 10px; border-radius: 4px; margin-bottom: 20px; text-align: center; }
        label { font-size: 0.9em; color: #6b5f52; font-weight: bold; }
        table { width: 100%; border-collapse: collapse; margin-top: 10px; }
        th, td { text-align: left; padding: 12px; border-bottom: 1px solid #eee; font-size: 0.9rem; }
        .actions { text-align: right; }
        .nav { display: flex; justify-content: space-between; align-items: center; margin-bottom: 20px; }
    </style>
</head>
<body>
    <div class="container">
{{end}}

{{define "layout_foot"}}
    </div>
</body>
</html>
{{end}}

{{define "login"}}
{{template "layout_head" .}}
        <div class="card" style="max-width:400px; margin:0 auto;">
            <h1>登录</h1>
            {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
            <form action="/login" method="POST">
                <label>用户名</label>
                <input type="text" name="username" required>
                <label>密码</label>
                <input type="password" name="password" required>
                <button type="submit" style="width:100%">登 录</button>
            </form>
            <div style="text-align:center; margin-top:15px;">
                <a href="/register" class="link">注册账号</a>
                <a href="/home" class="link">返回日记</a>
            </div>
        </div>
{{template "layout_foot" .}}
{{end}}

{{define "register"}}
{{template "layout_head" .}}
        <div class="card" style="max-width:400px; margin:0 auto;">
            <h1>注册管理员</h1>
            {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
            <form action="/register" method="POST">
                <label>设置用户名</label>
                <input type="text" name="username" required>
                <label>设置密码</label>
                <input type="password" name="password" required>
                <button type="submit" style="width:100%">注 册</button>
            </form>
            <div style="text-align:center; margin-top:15px;">
                <a href="/login" class="link">已有账号？去登录</a>
            </div>
        </div>
{{template "layout_foot" .}}
{{end}}

{{define "admin"}}
{{template "layout_head" .}}
        <div class="nav">
            <span style="color:#666;">👋 Hi, {{.Username}}</span>
            <div>
                <a href="/home" class="link">🏠 返回日记</a>
                <a href="/logout" class="link">🚪 退出</a>
            </div>
        </div>

        {{if .Flash}}<div class="{{.FlashClass}}">{{.Flash}}</div>{{end}}

        <div class="card">
            <h1>✍️ 发布新文章</h1>
            <form action="/publish" method="POST">
                <input type="text" name="title" required placeholder="标题">
                <input type="date" name="pub_date" value="{{.Today}}" required>
                <textarea name="content" style="height:150px;" required placeholder="内容..."></textarea>
                <button type="submit">发布</button>
            </form>
        </div>

        <div class="card">
            <h1>📚 文章管理 (最近50篇)</h1>
            <table>
                <thead><tr><th width="120">日期</th><th>标题</th><th width="100" style="text-align:right">操作</th></tr></thead>
                <tbody>
                {{range .Articles}}
                    <tr>
                        <td>{{.Date}}</td>
                        <td>{{.Title}}</td>
                        <td class="actions">
                            <a href="/edit?id={{.ID}}" class="link" style="margin:0;">编辑</a>
                            <a href="/delete?id={{.ID}}" onclick="return confirm('确定要删除吗？')" class="link" style="margin:0; color:#c62828;">删除</a>
                        </td>
                    </tr>
                {{end}}
                </tbody>
            </table>
        </div>
{{template "layout_foot" .}}
{{end}}

{{define "edit"}}
{{template "layout_head" .}}
        <div class="card">
            <h1>📝 编辑文章</h1>
            <form action="/update" method="POST">
                <input type="hidden" name="id" value="{{.ID}}">
                <label>标题</label>
                <input type="text" name="title" value="{{.Title}}" required>
                <label>日期</label>
                <input type="date" name="pub_date" value="{{.Date}}" required>
                <label>内容编辑 (HTML)</label>
                <textarea name="content" style="width:100%; min-height:400px; font-family:monospace; font-size:12px; border:1px solid #dcd3c1; padding:8px;">{{.Content}}</textarea>
                <div style="margin-top:12px; display:flex; gap:8px;">
                    <button type="submit">保存修改</button>
                    <a href="/admin" class="link" style="margin-left:auto">取消</a>
                </div>
            </form>
        </div>
{{template "layout_foot" .}}
{{end}}
`

type loginPageData struct {
	PageTitle string
	Error     string
}

type adminRow struct {
	ID    int
	Date  string
	Title string
}

type adminPageData struct {
	PageTitle  string
	Username   string
	Flash      string
	FlashClass string
	Today      string
	Articles   []adminRow
}

type editPageData struct {
	PageTitle string
	ID        int
	Title     string
	Date      string
	Content   string
}
