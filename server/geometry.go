package server

// Rect 轴对齐矩形，左上角锚点（与客户端画布坐标一致）
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Overlap 判断两个矩形是否相交；边缘刚好贴合不算相交
func Overlap(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// ClampToBounds 将大小为 w×h 的矩形左上角裁剪到 [0, maxX-w] × [0, maxY-h]
func ClampToBounds(x, y, w, h, maxX, maxY float64) (float64, float64) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > maxX-w {
		x = maxX - w
	}
	if y > maxY-h {
		y = maxY - h
	}
	return x, y
}
