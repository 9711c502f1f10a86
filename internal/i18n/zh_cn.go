package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// TUI - 列表界面
	"app.title":         "待办",
	"list.empty":        "暂无任务",
	"list.placeholder":  "需要做什么？",
	"list.counts":       "%d 未完成，%d 已完成",
	"list.hint":         "enter 编辑 · space 切换 · d 删除 · t 主题 · ? 帮助 · tab 焦点 · ctrl+c 退出",
	"list.hint_input":   "enter 添加 · tab 列表 · esc 清空 · ctrl+c 退出",
	"confirm.delete":    "删除 %q？(y/n)",
	"status.saving":     "保存中（%d 项）...",
	"status.saved":      "已保存",
	"status.save_error": "保存失败，将重试：%s",

	// TUI - 编辑界面
	"edit.title":   "编辑任务 #%d",
	"edit.missing": "该任务已不存在。",
	"edit.hint":    "ctrl+s/enter 保存 · esc 取消",
	"edit.saved":   "已保存 #%d",
	"edit.blank":   "标题不能为空",

	// TUI - 主题
	"theme.title":  "主题",
	"theme.system": "跟随系统（%s）",
	"theme.light":  "浅色",
	"theme.dark":   "深色",
	"theme.hint":   "上/下 选择 · enter 应用 · esc 关闭",

	// TUI - 帮助
	"help.body": `# 待办

| 按键 | 操作 |
|---|---|
| enter | 添加（输入框）/ 编辑（列表） |
| space | 切换完成状态 |
| d | 删除，按 y 确认 |
| t | 主题 |
| tab | 切换焦点 |
| esc | 返回 |
| ctrl+c | 退出 |

上下键滚动，其他任意键关闭。`,

	// CLI
	"cli.added":           "已添加 #%d %s",
	"cli.no_task":         "没有 id 为 %d 的任务",
	"cli.invalid_id":      "无效的任务 id %q",
	"cli.migrated":        "已将 %s 导入到键 %s",
	"cli.migrate_skipped": "键 %s 已有任务，未导入",
	"cli.config_created":  "已写入 %s",
	"cli.config_exists":   "%s 已存在",

	// Shell
	"shell.welcome": "todo shell。输入 help 查看命令，exit 退出。",
	"shell.help": `命令：
  ls [all|open|done]   列出任务
  add <标题>           添加任务
  x <id>               切换任务
  rm <id>              删除任务
  mv <id> <标题>       重命名任务
  reload               重新读取存储
  exit                 退出`,
	"shell.unknown": "未知命令 %q，输入 help",
	"shell.usage":   "用法：%s",
	"shell.bye":     "再见",
}
