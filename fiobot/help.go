package fiobot

const helpText = "📋 指令列表：\n" +
	"\n" +
	"【🏷️ 公招识别】\n" +
	"  公招 <标签1> <标签2> ... - 计算最优公招组合\n" +
	"  公招 + 截图 - OCR 识别公招截图标签\n" +
	"  公招更新 - 更新游戏数据\n" +
	"\n" +
	"【🎲 随机功能】\n" +
	"  roll / fioll <选项1> <选项2> ... - 帮你做选择（空格或逗号分隔）\n" +
	"\n" +
	"【❓ 帮助】\n" +
	"  fiop / fio帮助 - 显示本指令列表\n"

// onHelp 处理帮助指令
func (r *Robot) onHelp(m *MessageEvent) {
	r.reply(m, Text(helpText))
}
